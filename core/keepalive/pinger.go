// Package keepalive pings the backend liveness endpoint on a fixed schedule,
// independent of session state, to stop idle backend instances from spinning
// down. Failures are logged and never surfaced.
package keepalive

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/expertpicks/clientcore/core/logger"
)

// PingService hits the backend liveness endpoint.
type PingService interface {
	Ping(ctx context.Context) error
}

// Config holds pinger configuration.
type Config struct {
	PingInterval time.Duration `env:"KEEPALIVE_PING_INTERVAL" envDefault:"150s"`
	PingTimeout  time.Duration `env:"KEEPALIVE_PING_TIMEOUT" envDefault:"10s"`
}

var (
	// ErrServiceNil is returned when no ping service is provided.
	ErrServiceNil = errors.New("keepalive: ping service is required")
	// ErrInvalidInterval is returned for a non-positive ping interval.
	ErrInvalidInterval = errors.New("keepalive: ping interval must be positive")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("keepalive: pinger already started")
	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("keepalive: pinger not started")
)

// Pinger runs one liveness loop for the process lifetime: an immediate ping
// at start, then one per interval tick until stopped.
type Pinger struct {
	svc      PingService
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Pinger.
type Option func(*Pinger)

// WithPingerLogger configures structured logging. Defaults to a discard logger.
func WithPingerLogger(log *slog.Logger) Option {
	return func(p *Pinger) {
		if log != nil {
			p.logger = log
		}
	}
}

// NewPinger creates a pinger for the given service.
func NewPinger(svc PingService, cfg Config, opts ...Option) (*Pinger, error) {
	if svc == nil {
		return nil, ErrServiceNil
	}
	if cfg.PingInterval <= 0 {
		return nil, ErrInvalidInterval
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	p := &Pinger{
		svc:      svc,
		interval: cfg.PingInterval,
		timeout:  timeout,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Start begins the ping loop and blocks until the context is cancelled or
// Stop is called. Only one loop may run at a time.
func (p *Pinger) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	defer p.wg.Done()

	p.logger.InfoContext(loopCtx, "keep-alive pinger started",
		logger.Component("keepalive"), logger.Duration(p.interval))

	p.ping(loopCtx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			p.logger.InfoContext(context.Background(), "keep-alive pinger stopping",
				logger.Component("keepalive"))
			return loopCtx.Err()
		case <-ticker.C:
			p.ping(loopCtx)
		}
	}
}

// Stop cancels the schedule and waits for any in-flight ping to finish, so
// tests and shutdown paths never leak a timer.
func (p *Pinger) Stop() error {
	p.mu.Lock()
	if p.cancel == nil {
		p.mu.Unlock()
		return ErrNotStarted
	}
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
	return nil
}

// Run provides errgroup compatibility, treating context cancellation as a
// clean exit.
func (p *Pinger) Run(ctx context.Context) func() error {
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

func (p *Pinger) ping(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if err := p.svc.Ping(pingCtx); err != nil {
		if ctx.Err() == nil {
			p.logger.WarnContext(ctx, "backend ping failed",
				logger.Error(err), logger.Component("keepalive"))
		}
		return
	}

	p.logger.DebugContext(ctx, "backend ping ok",
		logger.Component("keepalive"), logger.Duration(time.Since(start)))
}
