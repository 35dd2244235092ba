// Package session owns the polling lifecycle of one review sitting: an
// explicit Start/Stop pair around a fixed refresh cadence against the
// report store, for a single acting clinician.
package session

import (
	"context"
	"sync"
	"time"

	"medreview/pkg/inbox"
	"medreview/pkg/model"
)

// DefaultInterval is the refresh cadence against the report store.
const DefaultInterval = 30 * time.Second

// RefreshResult carries one fetch outcome to the consumer. Exactly one of
// Reports and Err is meaningful.
type RefreshResult struct {
	Reports []model.Report
	Err     error
}

// Session polls the report store on behalf of one clinician. A session is
// started once, delivers results on its updates channel, and must be
// stopped when the sitting ends so no refresh runs for a detached user.
type Session struct {
	client   *inbox.Client
	userID   string
	interval time.Duration

	updates  chan RefreshResult
	kick     chan struct{}
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// New creates a session for the given clinician. A zero interval falls back
// to DefaultInterval.
func New(client *inbox.Client, userID string, interval time.Duration) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Session{
		client:   client,
		userID:   userID,
		interval: interval,
		updates:  make(chan RefreshResult),
		kick:     make(chan struct{}, 1),
	}
}

// UserID returns the acting clinician's identifier.
func (s *Session) UserID() string {
	return s.userID
}

// Updates returns the channel on which refresh results arrive.
func (s *Session) Updates() <-chan RefreshResult {
	return s.updates
}

// Start begins polling: an immediate fetch, then one per interval. Results
// are delivered on Updates. A fetch completing after Stop is discarded, not
// delivered.
func (s *Session) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.loop(ctx)
}

func (s *Session) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetch(ctx)
		case <-s.kick:
			s.fetch(ctx)
		}
	}
}

func (s *Session) fetch(ctx context.Context) {
	reports, err := s.client.FetchInbox(ctx, s.userID)
	select {
	case s.updates <- RefreshResult{Reports: reports, Err: err}:
	case <-ctx.Done():
	}
}

// Refresh requests an immediate out-of-cycle fetch. Safe to call at any
// time; coalesces if one is already queued.
func (s *Session) Refresh() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Stop cancels polling. Idempotent; only the first call has effect.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
