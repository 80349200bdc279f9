package notification

import (
	"context"
	"sync"

	"github.com/2beens/fluxtrack/internal/api"
	"github.com/2beens/fluxtrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type notificationClient interface {
	GetPendingNotification(ctx context.Context) (*api.FluxNotification, error)
	DismissNotification(ctx context.Context, id string) error
}

type State struct {
	Notification *api.FluxNotification
	Loading      bool
	Err          error
}

// Store owns at most one pending weekly strategy advisory.
type Store struct {
	mu     sync.Mutex
	client notificationClient

	notification *api.FluxNotification
	loading      bool
	err          error

	checkSeq    uint64
	cancelCheck context.CancelFunc

	listeners []func()
}

func NewStore(client notificationClient) *Store {
	return &Store{
		client: client,
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Notification: s.notification,
		Loading:      s.loading,
		Err:          s.err,
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

// CheckPending fetches the pending advisory, nil when there is none.
// A newer check supersedes an in-flight one; only the most recently
// issued check may touch state.
func (s *Store) CheckPending(ctx context.Context) (_ *api.FluxNotification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notificationStore.checkPending")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	if s.cancelCheck != nil {
		s.cancelCheck()
	}
	checkCtx, cancel := context.WithCancel(ctx)
	s.cancelCheck = cancel
	s.checkSeq++
	seq := s.checkSeq
	s.loading = true
	s.mu.Unlock()
	s.notify()

	pending, err := s.client.GetPendingNotification(checkCtx)

	s.mu.Lock()
	if seq != s.checkSeq {
		s.mu.Unlock()
		return nil, err
	}
	if api.IsCancelled(err) {
		s.mu.Unlock()
		return nil, err
	}
	cancel()
	s.cancelCheck = nil
	s.loading = false

	if err != nil {
		log.Errorf("failed to check pending notification: %s", err)
		s.err = err
	} else {
		s.notification = pending
		s.err = nil
	}

	result := s.notification
	s.mu.Unlock()
	s.notify()
	return result, err
}

// Dismiss marks the advisory as seen and clears the held notification
// regardless of the call's outcome: the new target is authoritative
// server-side whether or not the dismissal round-trip made it, so the
// modal never comes back. A failure is recorded, nothing more.
func (s *Store) Dismiss(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notificationStore.dismiss")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = s.client.DismissNotification(ctx, id)
	if api.IsCancelled(err) {
		return err
	}

	s.mu.Lock()
	s.notification = nil
	if err != nil {
		log.Errorf("failed to dismiss notification %s: %s", id, err)
		s.err = err
	} else {
		s.err = nil
	}
	s.mu.Unlock()
	s.notify()
	return err
}
