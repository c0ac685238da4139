package retry

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleeper struct {
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return ctx.Err()
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0
	boom := errors.New("net::ERR_SSL_PROTOCOL_ERROR")

	attempts, err := Do(context.Background(), Policy{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Sleeper:     sleeper,
	}, func(ctx context.Context, attempt int) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.slept)
}

func TestDoReturnsOnFirstSuccess(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0

	attempts, err := Do(context.Background(), Policy{MaxAttempts: 3, Sleeper: sleeper},
		func(ctx context.Context, attempt int) error {
			calls++
			if attempt < 2 {
				return errors.New("timeout")
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, calls)
	assert.Len(t, sleeper.slept, 1)
}

func TestDoStopErrorIsNotRetried(t *testing.T) {
	permanent := errors.New("not found")
	calls := 0

	attempts, err := Do(context.Background(), Policy{MaxAttempts: 5, Sleeper: &recordingSleeper{}},
		func(ctx context.Context, attempt int) error {
			calls++
			return Stop(permanent)
		})

	assert.ErrorIs(t, err, permanent)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := Do(ctx, Policy{MaxAttempts: 3}, func(ctx context.Context, attempt int) error {
		t.Fatal("fn must not be called")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
}

func TestDoReportsEachFailure(t *testing.T) {
	var seen []int
	_, _ = Do(context.Background(), Policy{
		MaxAttempts: 3,
		Sleeper:     &recordingSleeper{},
		OnError: func(attempt, max int, err error) {
			assert.Equal(t, 3, max)
			seen = append(seen, attempt)
		},
	}, func(ctx context.Context, attempt int) error {
		return errors.New("fail")
	})

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestJitterPickStaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	j := Jitter{Min: 2 * time.Second, Max: 4 * time.Second}
	for i := 0; i < 200; i++ {
		d := j.Pick(r)
		require.GreaterOrEqual(t, d, j.Min)
		require.LessOrEqual(t, d, j.Max)
	}

	assert.Equal(t, j.Min, j.Pick(nil))
	assert.Equal(t, time.Second, Jitter{Min: time.Second}.Pick(r))
}

func TestContextSleeperWakesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ContextSleeper.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
