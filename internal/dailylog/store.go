package dailylog

import (
	"context"
	"sync"

	"github.com/2beens/fluxtrack/internal/api"
	"github.com/2beens/fluxtrack/internal/telemetry/metrics"
	"github.com/2beens/fluxtrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type logClient interface {
	GetTodayLog(ctx context.Context) (*api.DailyLog, error)
	CreateLog(ctx context.Context, req api.CreateLogRequest) (*api.DailyLog, error)
	DeleteTodayLog(ctx context.Context) error
	UpdateActualTraining(ctx context.Context, date string, sessions []api.ActualTrainingWrite) (*api.DailyLog, error)
}

// State is a read-only snapshot of the store. Read failures land in
// LoadErr only, write failures in SaveErr only, so a failed write never
// hides a previously loaded log.
type State struct {
	Log     *DailyLog
	Loading bool
	Saving  bool
	LoadErr error
	SaveErr error
}

// Store owns today's daily log and is the only mutator of it.
type Store struct {
	mu      sync.Mutex
	client  logClient
	metrics *metrics.Manager

	log     *DailyLog
	loading bool
	saving  bool
	loadErr error
	saveErr error

	// last-issued-read-wins: only the load matching loadSeq at
	// resolution time may touch state
	loadSeq    uint64
	cancelLoad context.CancelFunc

	listeners []func()
}

func NewStore(client logClient, metricsManager *metrics.Manager) *Store {
	return &Store{
		client:  client,
		metrics: metricsManager,
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Log:     s.log,
		Loading: s.loading,
		Saving:  s.saving,
		LoadErr: s.loadErr,
		SaveErr: s.saveErr,
	}
}

// Subscribe registers fn to run after every state change.
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

// Load fetches today's log. A 404 resolves to a nil log with no error:
// no log exists yet for today, which is a valid state. Starting a new
// Load cancels and supersedes any in-flight one; a superseded or
// cancelled load leaves all state untouched.
func (s *Store) Load(ctx context.Context) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dailyLogStore.load")
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

	wireLog, err := s.client.GetTodayLog(loadCtx)

	s.mu.Lock()
	if seq != s.loadSeq {
		log.Tracef("daily log load %d superseded, discarding result", seq)
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
		s.log = fromWire(wireLog)
		s.loadErr = nil
	case api.IsNotFound(err):
		s.log = nil
		s.loadErr = nil
		err = nil
	default:
		log.Errorf("failed to load today's log: %s", err)
		s.log = nil
		s.loadErr = err
	}

	result := s.log
	s.mu.Unlock()
	s.notify()
	return result, err
}

// Create posts a new log for today. On failure (validation, or the log
// for that date already exists) the held log is left untouched.
func (s *Store) Create(ctx context.Context, req CreateRequest) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dailyLogStore.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.setSaving(true)

	created, err := s.client.CreateLog(ctx, req.toWire())
	if api.IsCancelled(err) {
		s.setSaving(false)
		return nil, err
	}
	if err != nil {
		log.Debugf("create daily log for %s failed: %s", req.Date, err)
		s.finishSave(err)
		return nil, err
	}

	s.mu.Lock()
	s.log = fromWire(created)
	s.saving = false
	s.saveErr = nil
	result := s.log
	s.mu.Unlock()
	s.notify()
	return result, nil
}

// Replace simulates an atomic edit on a backend that only supports
// create and delete of today's log: delete the existing log, recreate
// it from req, then re-apply the previously recorded actual training.
//
// A delete or create stage failure aborts the edit and keeps the held
// log as-is (the server-side delete may already have happened; there is
// no compensating undelete, see ReplaceError). A restore stage failure
// is not fatal: the newly created log is adopted and SaveErr carries a
// partial ReplaceError so the caller can tell the user their training
// entries for the day need re-entry.
func (s *Store) Replace(ctx context.Context, req CreateRequest) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dailyLogStore.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	var snapshot []api.ActualTrainingWrite
	if s.log != nil {
		snapshot = actualToWire(s.log.ActualTraining)
	}
	s.saving = true
	s.mu.Unlock()
	s.notify()

	if err := s.client.DeleteTodayLog(ctx); err != nil && !api.IsNotFound(err) {
		if api.IsCancelled(err) {
			s.setSaving(false)
			return nil, err
		}
		replaceErr := &ReplaceError{Stage: ReplaceStageDelete, Err: err}
		s.finishSave(replaceErr)
		return nil, replaceErr
	}

	created, err := s.client.CreateLog(ctx, req.toWire())
	if api.IsCancelled(err) {
		s.setSaving(false)
		return nil, err
	}
	if err != nil {
		// the old log is already deleted server-side at this point
		replaceErr := &ReplaceError{Stage: ReplaceStageCreate, Err: err}
		log.Errorf("log edit: delete succeeded but create failed, log for %s is gone: %s", req.Date, err)
		s.finishSave(replaceErr)
		return nil, replaceErr
	}

	if len(snapshot) > 0 {
		updated, err := s.client.UpdateActualTraining(ctx, created.Date, snapshot)
		if api.IsCancelled(err) {
			s.setSaving(false)
			return nil, err
		}
		if err != nil {
			replaceErr := &ReplaceError{Stage: ReplaceStageRestore, Err: err}
			log.Errorf("log edit: training restore failed for %s: %s", created.Date, err)
			s.metrics.CounterEditPartialSaga.Inc()

			s.mu.Lock()
			s.log = fromWire(created)
			s.saving = false
			s.saveErr = replaceErr
			result := s.log
			s.mu.Unlock()
			s.notify()
			return result, replaceErr
		}
		created = updated
	}

	s.mu.Lock()
	s.log = fromWire(created)
	s.saving = false
	s.saveErr = nil
	result := s.log
	s.mu.Unlock()
	s.notify()
	return result, nil
}

// UpdateActual replaces the actual-training sub-list of today's log.
// With no log held there is nothing to attach sessions to, so this is
// a no-op making no network call.
func (s *Store) UpdateActual(ctx context.Context, sessions []ActualSession) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dailyLogStore.updateActual")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	if s.log == nil {
		s.mu.Unlock()
		return nil, nil
	}
	date := s.log.Date
	s.saving = true
	s.mu.Unlock()
	s.notify()

	updated, err := s.client.UpdateActualTraining(ctx, date, actualToWire(sessions))
	if api.IsCancelled(err) {
		s.setSaving(false)
		return nil, err
	}
	if err != nil {
		s.finishSave(err)
		return nil, err
	}

	s.mu.Lock()
	s.log = fromWire(updated)
	s.saving = false
	s.saveErr = nil
	result := s.log
	s.mu.Unlock()
	s.notify()
	return result, nil
}

// Delete removes today's log. A 404 counts as success, so deleting an
// already-deleted log is fine.
func (s *Store) Delete(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dailyLogStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.setSaving(true)

	err = s.client.DeleteTodayLog(ctx)
	if api.IsCancelled(err) {
		s.setSaving(false)
		return err
	}
	if err != nil && !api.IsNotFound(err) {
		s.finishSave(err)
		return err
	}

	s.mu.Lock()
	s.log = nil
	s.saving = false
	s.saveErr = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) setSaving(saving bool) {
	s.mu.Lock()
	s.saving = saving
	s.mu.Unlock()
	s.notify()
}

func (s *Store) finishSave(err error) {
	s.mu.Lock()
	s.saving = false
	s.saveErr = err
	s.mu.Unlock()
	s.notify()
}
