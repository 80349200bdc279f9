package plan

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/fluxtrack/internal/api"
	"github.com/2beens/fluxtrack/internal/telemetry/metrics"
	"github.com/2beens/fluxtrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=store.go -destination=store_mocks_test.go -package=plan

type planClient interface {
	GetActivePlan(ctx context.Context) (*api.Plan, error)
	CreatePlan(ctx context.Context, req api.CreatePlanRequest) (*api.Plan, error)
	CompletePlan(ctx context.Context, id string) error
	AbandonPlan(ctx context.Context, id string) error
	PausePlan(ctx context.Context, id string) error
	ResumePlan(ctx context.Context, id string) error
	RecalibratePlan(ctx context.Context, id string, option api.RecalibrationOption) (*api.Plan, error)
	GetCurrentWeekTarget(ctx context.Context) (*api.WeeklyTarget, error)
}

// State is a read-only snapshot of the store. Unlike the daily log
// store, load and action failures share the one Err slot.
type State struct {
	Plan    *api.Plan
	Loading bool
	Acting  bool
	Err     error
}

// Store owns the current nutrition plan and its lifecycle:
//
//	(none) -> active            Create
//	active -> completed         Complete (terminal)
//	active -> abandoned         Abandon (terminal)
//	active -> paused            Pause
//	paused -> active            Resume
//	active -> active            Recalibrate (targets mutated in place)
//
// Every transition is requested here and confirmed either by re-fetching
// the active plan or by adopting the mutation response, never both.
type Store struct {
	mu      sync.Mutex
	client  planClient
	metrics *metrics.Manager

	plan    *api.Plan
	loading bool
	acting  bool
	err     error

	loadSeq    uint64
	cancelLoad context.CancelFunc

	listeners []func()
}

func NewStore(client planClient, metricsManager *metrics.Manager) *Store {
	return &Store{
		client:  client,
		metrics: metricsManager,
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Plan:    s.plan,
		Loading: s.loading,
		Acting:  s.acting,
		Err:     s.err,
	}
}

func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Load fetches the active plan; 404 means no plan, which is a valid
// state. Same last-issued-read-wins discipline as the daily log store.
func (s *Store) Load(ctx context.Context) (_ *api.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planStore.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel
	s.loadSeq++
	seq := s.loadSeq
	s.loading = true
	s.mu.Unlock()
	s.notify()

	plan, err := s.client.GetActivePlan(loadCtx)

	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		return nil, err
	}
	if api.IsCancelled(err) {
		s.mu.Unlock()
		return nil, err
	}
	cancel()
	s.cancelLoad = nil
	s.loading = false

	switch {
	case err == nil:
		s.plan = plan
		s.err = nil
	case api.IsNotFound(err):
		s.plan = nil
		s.err = nil
		err = nil
	default:
		log.Errorf("failed to load active plan: %s", err)
		s.err = err
	}

	result := s.plan
	s.mu.Unlock()
	s.notify()
	return result, err
}

// Create starts a new plan. Fails (plan stays nil) when an active plan
// already exists server-side.
func (s *Store) Create(ctx context.Context, req api.CreatePlanRequest) bool {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, "planStore.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.setActing(true)

	plan, err := s.client.CreatePlan(ctx, req)
	if api.IsCancelled(err) {
		s.setActing(false)
		return false
	}
	if err != nil {
		log.Debugf("create plan failed: %s", err)
		s.metrics.CounterPlanTransitions.WithLabelValues("create", "failure").Inc()
		s.finishAction(err)
		return false
	}

	s.metrics.CounterPlanTransitions.WithLabelValues("create", "success").Inc()
	s.mu.Lock()
	s.plan = plan
	s.acting = false
	s.err = nil
	s.mu.Unlock()
	s.notify()
	return true
}

// Complete marks the active plan completed. Terminal: the follow-up
// fetch of the active plan returns none, so the held plan becomes nil.
func (s *Store) Complete(ctx context.Context) bool {
	return s.transition(ctx, "complete", s.client.CompletePlan)
}

// Abandon gives up on the active plan. Terminal, like Complete.
func (s *Store) Abandon(ctx context.Context) bool {
	return s.transition(ctx, "abandon", s.client.AbandonPlan)
}

func (s *Store) Pause(ctx context.Context) bool {
	return s.transition(ctx, "pause", s.client.PausePlan)
}

func (s *Store) Resume(ctx context.Context) bool {
	return s.transition(ctx, "resume", s.client.ResumePlan)
}

// transition runs one lifecycle call and, on success, re-fetches the
// active plan so the held plan reflects the backend's authoritative
// status. With no plan held there is nothing to act on: no call, false.
func (s *Store) transition(
	ctx context.Context,
	name string,
	call func(ctx context.Context, id string) error,
) bool {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, fmt.Sprintf("planStore.%s", name))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	if s.plan == nil {
		s.mu.Unlock()
		log.Tracef("plan %s requested with no plan held, ignoring", name)
		return false
	}
	if !canTransition(s.plan.Status, name) {
		status := s.plan.Status
		s.mu.Unlock()
		log.Tracef("plan %s not allowed from status %s, ignoring", name, status)
		return false
	}
	planID := s.plan.ID
	s.acting = true
	s.mu.Unlock()
	s.notify()

	if err = call(ctx, planID); err != nil {
		if api.IsCancelled(err) {
			s.setActing(false)
			return false
		}
		log.Errorf("plan %s failed: %s", name, err)
		s.metrics.CounterPlanTransitions.WithLabelValues(name, "failure").Inc()
		s.finishAction(err)
		return false
	}

	s.metrics.CounterPlanTransitions.WithLabelValues(name, "success").Inc()

	plan, err := s.client.GetActivePlan(ctx)
	if api.IsCancelled(err) {
		s.setActing(false)
		return true
	}
	if err != nil && !api.IsNotFound(err) {
		s.finishAction(err)
		return true
	}

	s.mu.Lock()
	s.plan = plan // nil after complete/abandon
	s.acting = false
	s.err = nil
	s.mu.Unlock()
	s.notify()
	return true
}

// Recalibrate adjusts the active plan's targets in place. The response
// body is the authoritative new plan state, adopted directly; issuing a
// follow-up fetch of the active plan here would open a staleness window
// on top of wasting a round-trip.
func (s *Store) Recalibrate(ctx context.Context, option api.RecalibrationOption) bool {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, "planStore.recalibrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	if s.plan == nil {
		s.mu.Unlock()
		return false
	}
	if !canTransition(s.plan.Status, "recalibrate") {
		s.mu.Unlock()
		return false
	}
	planID := s.plan.ID
	s.mu.Unlock()

	if !option.Valid() {
		s.mu.Lock()
		s.err = fmt.Errorf("unknown recalibration option: %s", option)
		s.mu.Unlock()
		s.notify()
		return false
	}

	s.setActing(true)

	plan, err := s.client.RecalibratePlan(ctx, planID, option)
	if api.IsCancelled(err) {
		s.setActing(false)
		return false
	}
	if err != nil {
		log.Errorf("plan recalibration (%s) failed: %s", option, err)
		s.metrics.CounterPlanTransitions.WithLabelValues("recalibrate", "failure").Inc()
		s.finishAction(err)
		return false
	}

	s.metrics.CounterPlanTransitions.WithLabelValues("recalibrate", "success").Inc()
	s.mu.Lock()
	s.plan = plan
	s.acting = false
	s.err = nil
	s.mu.Unlock()
	s.notify()
	return true
}

// CurrentWeekTarget returns this week's target, nil when no plan covers
// the current week. Plain pass-through: the transport caches it.
func (s *Store) CurrentWeekTarget(ctx context.Context) (*api.WeeklyTarget, error) {
	return s.client.GetCurrentWeekTarget(ctx)
}

func (s *Store) setActing(acting bool) {
	s.mu.Lock()
	s.acting = acting
	s.mu.Unlock()
	s.notify()
}

func (s *Store) finishAction(err error) {
	s.mu.Lock()
	s.acting = false
	s.err = err
	s.mu.Unlock()
	s.notify()
}
