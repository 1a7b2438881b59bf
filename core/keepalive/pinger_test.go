package keepalive_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertpicks/clientcore/core/keepalive"
)

type stubPing struct {
	calls atomic.Int32
	err   atomic.Value // error
}

func (s *stubPing) Ping(ctx context.Context) error {
	s.calls.Add(1)
	if err, ok := s.err.Load().(error); ok && err != nil {
		return err
	}
	return nil
}

func TestNewPinger(t *testing.T) {
	t.Parallel()

	t.Run("rejects nil service", func(t *testing.T) {
		t.Parallel()
		_, err := keepalive.NewPinger(nil, keepalive.Config{PingInterval: time.Minute})
		assert.ErrorIs(t, err, keepalive.ErrServiceNil)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		t.Parallel()
		_, err := keepalive.NewPinger(&stubPing{}, keepalive.Config{})
		assert.ErrorIs(t, err, keepalive.ErrInvalidInterval)
	})
}

func TestPinger_PingsImmediatelyThenOnTicks(t *testing.T) {
	t.Parallel()

	svc := &stubPing{}
	pinger, err := keepalive.NewPinger(svc, keepalive.Config{
		PingInterval: 20 * time.Millisecond,
		PingTimeout:  time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = pinger.Start(ctx) }()

	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, time.Second, time.Millisecond, "first ping fires immediately, not after the first tick")

	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestPinger_FailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	svc := &stubPing{}
	svc.err.Store(errors.New("server spinning up"))
	pinger, err := keepalive.NewPinger(svc, keepalive.Config{
		PingInterval: 20 * time.Millisecond,
		PingTimeout:  time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = pinger.Start(ctx) }()

	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond, "the loop keeps pinging through failures")
}

func TestPinger_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("stop cancels the schedule", func(t *testing.T) {
		t.Parallel()

		svc := &stubPing{}
		pinger, err := keepalive.NewPinger(svc, keepalive.Config{
			PingInterval: 10 * time.Millisecond,
			PingTimeout:  time.Second,
		})
		require.NoError(t, err)

		go func() { _ = pinger.Start(context.Background()) }()
		require.Eventually(t, func() bool {
			return svc.calls.Load() >= 1
		}, time.Second, time.Millisecond)

		require.NoError(t, pinger.Stop())

		calls := svc.calls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, calls, svc.calls.Load(), "no pings after stop")
	})

	t.Run("double start fails", func(t *testing.T) {
		t.Parallel()

		svc := &stubPing{}
		pinger, err := keepalive.NewPinger(svc, keepalive.Config{
			PingInterval: time.Hour,
			PingTimeout:  time.Second,
		})
		require.NoError(t, err)

		go func() { _ = pinger.Start(context.Background()) }()
		require.Eventually(t, func() bool {
			return svc.calls.Load() >= 1
		}, time.Second, time.Millisecond)

		assert.ErrorIs(t, pinger.Start(t.Context()), keepalive.ErrAlreadyStarted)
		require.NoError(t, pinger.Stop())
	})

	t.Run("stop before start fails", func(t *testing.T) {
		t.Parallel()

		pinger, err := keepalive.NewPinger(&stubPing{}, keepalive.Config{PingInterval: time.Minute})
		require.NoError(t, err)
		assert.ErrorIs(t, pinger.Stop(), keepalive.ErrNotStarted)
	})

	t.Run("run exits cleanly on context cancellation", func(t *testing.T) {
		t.Parallel()

		pinger, err := keepalive.NewPinger(&stubPing{}, keepalive.Config{PingInterval: time.Hour})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- pinger.Run(ctx)() }()

		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("run did not exit after context cancellation")
		}
	})
}
