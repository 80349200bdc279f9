package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fluxtrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusPaused    PlanStatus = "paused"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusAbandoned PlanStatus = "abandoned"
)

type RecalibrationOption string

const (
	RecalibrationIncreaseDeficit RecalibrationOption = "increase_deficit"
	RecalibrationExtendTimeline  RecalibrationOption = "extend_timeline"
	RecalibrationReviseGoal      RecalibrationOption = "revise_goal"
	RecalibrationKeepCurrent     RecalibrationOption = "keep_current"
)

func (o RecalibrationOption) Valid() bool {
	switch o {
	case RecalibrationIncreaseDeficit,
		RecalibrationExtendTimeline,
		RecalibrationReviseGoal,
		RecalibrationKeepCurrent:
		return true
	}
	return false
}

type WeeklyTarget struct {
	Week           int     `json:"week"`
	TargetWeightKg float64 `json:"targetWeightKg"`
	Calories       int     `json:"calories"`
	DeficitKcal    int     `json:"deficitKcal"`
}

// Plan is a multi-week weight-change strategy. The backend allows at
// most one plan with status "active" at any time.
type Plan struct {
	ID               string                `json:"id"`
	StartWeightKg    float64               `json:"startWeightKg"`
	TargetWeightKg   float64               `json:"targetWeightKg"`
	DurationWeeks    int                   `json:"durationWeeks"`
	WeeklyChangeKg   float64               `json:"weeklyChangeKg"`
	DailyDeficitKcal int                   `json:"dailyDeficitKcal"`
	Status           PlanStatus            `json:"status"`
	WeeklyTargets    []WeeklyTarget        `json:"weeklyTargets,omitempty"`
	StartedAt        time.Time             `json:"startedAt"`
	Recalibrations   []RecalibrationRecord `json:"recalibrations,omitempty"`
}

// RecalibrationRecord is an append-only history entry written by the
// backend as a side effect of a recalibration. Read-only for clients.
type RecalibrationRecord struct {
	ID                  string              `json:"id"`
	Option              RecalibrationOption `json:"option"`
	PreviousDeficitKcal int                 `json:"previousDeficitKcal"`
	NewDeficitKcal      int                 `json:"newDeficitKcal"`
	CreatedAt           time.Time           `json:"createdAt"`
}

type CreatePlanRequest struct {
	StartWeightKg  float64 `json:"startWeightKg"`
	TargetWeightKg float64 `json:"targetWeightKg"`
	DurationWeeks  int     `json:"durationWeeks"`
}

type recalibrateRequest struct {
	Option RecalibrationOption `json:"option"`
}

// GetActivePlan fetches the currently active plan. As with the daily
// log, a 404 surfaces as *Error and the plan store interprets it.
func (c *Client) GetActivePlan(ctx context.Context) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.getActivePlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var plan Plan
	if err := c.request(ctx, http.MethodGet, "/plans/active", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) CreatePlan(ctx context.Context, req CreatePlanRequest) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.createPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var plan Plan
	if err := c.request(ctx, http.MethodPost, "/plans", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) CompletePlan(ctx context.Context, id string) error {
	return c.planTransition(ctx, id, "complete")
}

func (c *Client) AbandonPlan(ctx context.Context, id string) error {
	return c.planTransition(ctx, id, "abandon")
}

func (c *Client) PausePlan(ctx context.Context, id string) error {
	return c.planTransition(ctx, id, "pause")
}

func (c *Client) ResumePlan(ctx context.Context, id string) error {
	return c.planTransition(ctx, id, "resume")
}

// planTransition posts one of the lifecycle endpoints. Empty request
// body, empty response body.
func (c *Client) planTransition(ctx context.Context, id, transition string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.planTransition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("plan.id", id),
		attribute.String("plan.transition", transition),
	)

	path := fmt.Sprintf("/plans/%s/%s", id, transition)
	return c.request(ctx, http.MethodPost, path, nil, nil)
}

// RecalibratePlan applies one of the four recalibration options. The
// response body is the full updated plan; callers adopt it directly
// instead of re-fetching. The cached current-week target is dropped
// since a recalibration changes the numbers behind it.
func (c *Client) RecalibratePlan(
	ctx context.Context,
	id string,
	option RecalibrationOption,
) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.recalibratePlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("plan.id", id),
		attribute.String("plan.recalibration", string(option)),
	)

	path := fmt.Sprintf("/plans/%s/recalibrate", id)
	var plan Plan
	if err := c.request(ctx, http.MethodPost, path, recalibrateRequest{Option: option}, &plan); err != nil {
		return nil, err
	}

	c.weekTargetCache.Del(weekTargetCacheKey(time.Now()))

	return &plan, nil
}

// GetCurrentWeekTarget returns this week's target, or nil when no plan
// covers the current week. Responses are cached in-process for an hour,
// keyed by ISO week, so chatty consumers don't hammer the backend.
func (c *Client) GetCurrentWeekTarget(ctx context.Context) (_ *WeeklyTarget, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.getCurrentWeekTarget")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := weekTargetCacheKey(time.Now())
	if cachedBytes, err := c.weekTargetCache.Get(cacheKey); err == nil {
		var target WeeklyTarget
		if err = json.Unmarshal(cachedBytes, &target); err == nil {
			log.Tracef("current week target served from cache")
			return &target, nil
		}
		log.Errorf("failed to unmarshal cached week target: %s", err)
	}

	var target WeeklyTarget
	if err := c.request(ctx, http.MethodGet, "/plans/current-week", nil, &target); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if targetBytes, err := json.Marshal(target); err == nil {
		if err := c.weekTargetCache.Set(cacheKey, targetBytes, weekTargetCacheExpireSeconds); err != nil {
			log.Errorf("failed to cache current week target: %s", err)
		}
	}

	return &target, nil
}

func weekTargetCacheKey(now time.Time) []byte {
	year, week := now.ISOWeek()
	return []byte(fmt.Sprintf("week-target::%d-%02d", year, week))
}
