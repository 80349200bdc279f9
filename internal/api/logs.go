package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/fluxtrack/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// TrainingSession is one planned training entry of a daily log, as the
// backend stores it.
type TrainingSession struct {
	Type        string `json:"type"`
	DurationMin int    `json:"durationMin"`
	Notes       string `json:"notes,omitempty"`
}

// ActualTrainingSession is one performed training entry. SessionOrder is
// assigned by the backend and only ever appears on reads.
type ActualTrainingSession struct {
	Type               string `json:"type"`
	DurationMin        int    `json:"durationMin"`
	Notes              string `json:"notes,omitempty"`
	PerceivedIntensity int    `json:"perceivedIntensity"`
	SessionOrder       int    `json:"sessionOrder"`
}

// ActualTrainingWrite is the write-side shape of an actual training
// session. It deliberately has no SessionOrder field, so a write can
// never echo the server-assigned ordering back.
type ActualTrainingWrite struct {
	Type               string `json:"type"`
	DurationMin        int    `json:"durationMin"`
	Notes              string `json:"notes,omitempty"`
	PerceivedIntensity int    `json:"perceivedIntensity"`
}

type MealTarget struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

type DailyTargets struct {
	Calories  int          `json:"calories"`
	ProteinG  int          `json:"proteinG"`
	CarbsG    int          `json:"carbsG"`
	FatG      int          `json:"fatG"`
	WaterMl   int          `json:"waterMl"`
	DayType   string       `json:"dayType"`
	MealSplit []MealTarget `json:"mealSplit,omitempty"`
}

// DailyLog is the backend resource for one calendar date. Targets, TDEE
// and RecoveryScore are derived server-side.
type DailyLog struct {
	ID               string                  `json:"id"`
	Date             string                  `json:"date"`
	WeightKg         float64                 `json:"weightKg"`
	SleepHours       float64                 `json:"sleepHours"`
	HRV              *float64                `json:"hrv,omitempty"`
	RestingHeartRate *int                    `json:"restingHeartRate,omitempty"`
	BodyFatPct       *float64                `json:"bodyFatPct,omitempty"`
	PlannedTraining  []TrainingSession       `json:"plannedTraining"`
	ActualTraining   []ActualTrainingSession `json:"actualTraining,omitempty"`
	Targets          *DailyTargets           `json:"targets,omitempty"`
	TDEE             float64                 `json:"tdee,omitempty"`
	RecoveryScore    float64                 `json:"recoveryScore,omitempty"`
}

type CreateLogRequest struct {
	Date             string            `json:"date"`
	WeightKg         float64           `json:"weightKg"`
	SleepHours       float64           `json:"sleepHours"`
	HRV              *float64          `json:"hrv,omitempty"`
	RestingHeartRate *int              `json:"restingHeartRate,omitempty"`
	BodyFatPct       *float64          `json:"bodyFatPct,omitempty"`
	PlannedTraining  []TrainingSession `json:"plannedTraining"`
}

// GetTodayLog fetches today's log. A 404 comes back as *Error; the
// daily log store decides that it means "no log yet", not this layer.
func (c *Client) GetTodayLog(ctx context.Context) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.getTodayLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var dailyLog DailyLog
	if err := c.request(ctx, http.MethodGet, "/logs/today", nil, &dailyLog); err != nil {
		return nil, err
	}
	return &dailyLog, nil
}

func (c *Client) CreateLog(ctx context.Context, req CreateLogRequest) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.createLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log.date", req.Date))

	var dailyLog DailyLog
	if err := c.request(ctx, http.MethodPost, "/logs", req, &dailyLog); err != nil {
		return nil, err
	}
	return &dailyLog, nil
}

func (c *Client) DeleteTodayLog(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.deleteTodayLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return c.request(ctx, http.MethodDelete, "/logs/today", nil, nil)
}

// UpdateActualTraining replaces the actual-training sub-list of the log
// for the given date and returns the updated log.
func (c *Client) UpdateActualTraining(
	ctx context.Context,
	date string,
	sessions []ActualTrainingWrite,
) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.updateActualTraining")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log.date", date))

	path := fmt.Sprintf("/logs/%s/actual-training", date)
	var dailyLog DailyLog
	if err := c.request(ctx, http.MethodPatch, path, sessions, &dailyLog); err != nil {
		return nil, err
	}
	return &dailyLog, nil
}
