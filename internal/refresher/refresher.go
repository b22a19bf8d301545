package refresher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrAlreadyArmed is returned by Start while a loop is already running.
var ErrAlreadyArmed = errors.New("refresher already armed")

// State is the lifecycle state of a Refresher.
type State int

const (
	Idle State = iota
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "idle"
}

// Job is the work done once at start and then at every UTC day boundary.
type Job func(ctx context.Context, now time.Time) error

// Timer is the subset of *time.Timer the loop uses.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

type stdTimer struct{ t *time.Timer }

func (s stdTimer) C() <-chan time.Time { return s.t.C }
func (s stdTimer) Stop() bool          { return s.t.Stop() }

// Refresher runs a Job daily.
type Refresher struct {
	job      Job
	nowFn    func() time.Time
	newTimer func(time.Duration) Timer

	mu    sync.Mutex
	state State
}

// Option customizes a Refresher.
type Option func(*Refresher)

// WithClock sets the time source used to find the next day boundary.
func WithClock(nowFn func() time.Time) Option {
	return func(r *Refresher) { r.nowFn = nowFn }
}

// WithTimer replaces the timer constructor.
func WithTimer(newTimer func(time.Duration) Timer) Option {
	return func(r *Refresher) { r.newTimer = newTimer }
}

// New creates an idle refresher for job.
func New(job Job, opts ...Option) *Refresher {
	r := &Refresher{
		job:      job,
		nowFn:    time.Now,
		newTimer: func(d time.Duration) Timer { return stdTimer{t: time.NewTimer(d)} },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Refresher) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start runs the job immediately, then at every following UTC midnight.
// It blocks until ctx is cancelled and returns the refresher to Idle.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state == Armed {
		r.mu.Unlock()
		return ErrAlreadyArmed
	}
	r.state = Armed
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.state = Idle
		r.mu.Unlock()
	}()

	slog.Info("[Refresher] Armed")
	r.run(ctx)

	for {
		now := r.nowFn().UTC()
		wait := NextBoundary(now).Sub(now)
		timer := r.newTimer(wait)
		slog.Debug("[Refresher] Next run scheduled", "in", wait)

		select {
		case <-timer.C():
			r.run(ctx)
		case <-ctx.Done():
			timer.Stop()
			slog.Info("[Refresher] Stopping (context cancelled)")
			return nil
		}
	}
}

func (r *Refresher) run(ctx context.Context) {
	now := r.nowFn().UTC()
	if err := r.job(ctx, now); err != nil {
		slog.Error("[Refresher] Run failed", "error", err, "at", now)
	}
}

// NextBoundary returns the first UTC midnight strictly after now.
func NextBoundary(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}
