package notify

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/expertpicks/clientcore/core/logger"
	"github.com/expertpicks/clientcore/core/session"
)

// CountService fetches the pending notification count for the current user.
type CountService interface {
	PendingCount(ctx context.Context) (int, error)
}

// Config holds poller configuration. The interval is deployment
// configuration, not a constant.
type Config struct {
	PollInterval  time.Duration `env:"NOTIFY_POLL_INTERVAL" envDefault:"60s"`
	FetchTimeout  time.Duration `env:"NOTIFY_FETCH_TIMEOUT" envDefault:"10s"`
	EligibleRoles []string      `env:"NOTIFY_ELIGIBLE_ROLES" envDefault:"ROLE_EXPERT_VERIFIED,ROLE_BRAND_VERIFIED"`
}

// Poller maintains the pending notification count while the session is
// eligible, and pins it at zero otherwise.
//
// The state machine has two states. Idle: no timer, no network calls,
// count 0. Active: one immediate fetch, then one fetch per interval tick.
// Transitions follow the session store: becoming eligible enters Active,
// logout or losing the eligible role returns to Idle and cancels the
// schedule synchronously. Identity replacement while staying eligible
// restarts the schedule from scratch, no carried-over timer.
type Poller struct {
	svc           CountService
	store         *session.Store
	interval      time.Duration
	fetchTimeout  time.Duration
	eligibleRoles []string
	logger        *slog.Logger

	mu          sync.Mutex
	started     bool
	runCtx      context.Context
	runCancel   context.CancelFunc
	unsubscribe func()
	loopCancel  context.CancelFunc
	activeToken string

	count atomic.Int64
	wg    sync.WaitGroup

	subMu   sync.Mutex
	subs    map[uint64]func(int)
	nextSub uint64
}

// Option configures a Poller.
type Option func(*Poller)

// WithPollerLogger configures structured logging. Defaults to a discard logger.
func WithPollerLogger(log *slog.Logger) Option {
	return func(p *Poller) {
		if log != nil {
			p.logger = log
		}
	}
}

// NewPoller creates a poller bound to the given session store.
func NewPoller(svc CountService, store *session.Store, cfg Config, opts ...Option) (*Poller, error) {
	if svc == nil {
		return nil, ErrServiceNil
	}
	if store == nil {
		return nil, ErrStoreNil
	}
	if cfg.PollInterval <= 0 {
		return nil, ErrInvalidInterval
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}

	p := &Poller{
		svc:           svc,
		store:         store,
		interval:      cfg.PollInterval,
		fetchTimeout:  fetchTimeout,
		eligibleRoles: slices.Clone(cfg.EligibleRoles),
		logger:        logger.Discard(),
		subs:          make(map[uint64]func(int)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Count returns the current pending notification count. Always 0 while Idle.
func (p *Poller) Count() int {
	return int(p.count.Load())
}

// PollerStats provides observability for monitoring and tests.
type PollerStats struct {
	IsRunning bool // Start has been called and not yet torn down
	IsActive  bool // a polling loop is scheduled for the current session
	Count     int  // current pending notification count
}

// Stats returns the poller's current state. Thread-safe.
func (p *Poller) Stats() PollerStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PollerStats{
		IsRunning: p.started,
		IsActive:  p.loopCancel != nil,
		Count:     int(p.count.Load()),
	}
}

// Subscribe registers a listener invoked whenever the count changes.
// The returned function removes the listener. Listeners run on the poller's
// goroutines and must not call back into the Poller.
func (p *Poller) Subscribe(fn func(int)) func() {
	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		delete(p.subs, id)
		p.subMu.Unlock()
	}
}

// Start subscribes to the session store and blocks until the context is
// cancelled or Stop is called. Use Run for errgroup composition or call
// this in a goroutine.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.started = true
	p.runCtx, p.runCancel = context.WithCancel(ctx)
	runCtx := p.runCtx

	// Subscribe before evaluating the current snapshot: a transition
	// racing with startup is then either seen here or delivered to the
	// subscriber, never lost.
	p.unsubscribe = p.store.Subscribe(p.handleSnapshot)
	if snap := p.store.Get(); p.eligible(snap) {
		p.activateLocked(snap)
	}
	p.mu.Unlock()

	p.logger.InfoContext(runCtx, "notification poller started",
		logger.Component("notify"), logger.Duration(p.interval))

	<-runCtx.Done()
	p.teardown()
	return runCtx.Err()
}

// Stop cancels the schedule, detaches from the store, and waits for any
// in-flight fetch to finish.
func (p *Poller) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}
	cancel := p.runCancel
	p.mu.Unlock()

	cancel()
	p.teardown()
	return nil
}

// Run provides errgroup compatibility, mirroring Start/Stop lifecycle
// handling and treating context cancellation as a clean exit.
func (p *Poller) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- p.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = p.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// eligible reports whether the snapshot should keep the poller Active:
// authenticated and holding at least one eligible role. An empty role-set
// fails closed.
func (p *Poller) eligible(snap session.Snapshot) bool {
	if !snap.IsAuthenticated() {
		return false
	}
	return snap.Identity.HasAnyRole(p.eligibleRoles...)
}

// handleSnapshot reacts to session transitions. It runs synchronously on
// the mutating goroutine, so by the time Logout returns, the schedule is
// already cancelled.
func (p *Poller) handleSnapshot(snap session.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	switch eligible := p.eligible(snap); {
	case eligible && p.loopCancel == nil:
		p.activateLocked(snap)
	case eligible && snap.Identity.Token != p.activeToken:
		// Different session, same eligibility: fresh Active entry.
		p.deactivateLocked()
		p.activateLocked(snap)
	case !eligible && p.loopCancel != nil:
		p.deactivateLocked()
	}
}

// activateLocked starts a polling loop for the snapshot's identity.
// A previous loop, if any, must already be cancelled: a new timer is never
// created on top of an old one.
func (p *Poller) activateLocked(snap session.Snapshot) {
	ctx, cancel := context.WithCancel(p.runCtx)
	p.loopCancel = cancel
	p.activeToken = snap.Identity.Token

	p.logger.DebugContext(ctx, "notification polling activated",
		logger.Component("notify"), logger.UserID(snap.Identity.ID))

	p.wg.Add(1)
	go p.loop(ctx)
}

// deactivateLocked cancels the loop and pins the count at zero.
func (p *Poller) deactivateLocked() {
	if p.loopCancel == nil {
		return
	}
	p.loopCancel()
	p.loopCancel = nil
	p.activeToken = ""
	p.setCount(0)

	p.logger.DebugContext(context.Background(), "notification polling deactivated",
		logger.Component("notify"))
}

// loop issues one immediate fetch, then one per tick until cancelled.
// Eligibility is re-checked at fire time so a tick scheduled before an
// intervening logout no-ops.
func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.fetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.eligible(p.store.Get()) {
				return
			}
			p.fetch(ctx)
		}
	}
}

// fetch retrieves the count and applies it unless the loop was cancelled
// meanwhile. Failures keep the last-known count and are retried next tick;
// they are logged, never surfaced.
func (p *Poller) fetch(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	n, err := p.svc.PendingCount(fetchCtx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.WarnContext(ctx, "pending count fetch failed",
				logger.Error(err), logger.Component("notify"))
		}
		return
	}

	// Stale-response guard: the result belongs to the session this loop
	// was started for. The cancel in deactivateLocked runs under p.mu
	// together with the count reset, so checking under the same lock
	// ensures a post-logout result can never clobber the reset.
	p.mu.Lock()
	if ctx.Err() == nil {
		p.setCount(n)
	}
	p.mu.Unlock()
}

// setCount records the count and notifies subscribers on change.
func (p *Poller) setCount(n int) {
	old := p.count.Swap(int64(n))
	if old == int64(n) {
		return
	}

	p.subMu.Lock()
	fns := make([]func(int), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subMu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}

// teardown detaches from the store and waits for the loop to exit.
// Idempotent: both Start's exit path and Stop call it.
func (p *Poller) teardown() {
	p.mu.Lock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.deactivateLocked()
	p.started = false
	p.mu.Unlock()

	p.wg.Wait()
}
