package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

var errSink = errors.New("sink down")

func failing(context.Context) error    { return errSink }
func succeeding(context.Context) error { return nil }

func TestBreaker_StartsClosed(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute, zap.NewNop())

	if b.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", b.State())
	}
}

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := b.Do(ctx, failing); !errors.Is(err, errSink) {
			t.Fatalf("call %d error = %v, want sink error", i, err)
		}
		if b.State() != StateClosed {
			t.Fatalf("state after %d failures = %v, want closed", i+1, b.State())
		}
	}

	if err := b.Do(ctx, failing); !errors.Is(err, errSink) {
		t.Fatalf("tripping call error = %v, want sink error", err)
	}
	if b.State() != StateOpen {
		t.Errorf("state after threshold failures = %v, want open", b.State())
	}
}

func TestBreaker_RejectsWhileOpen(t *testing.T) {
	b := NewBreaker("test", 1, 10*time.Second, zap.NewNop())
	ctx := context.Background()

	b.Do(ctx, failing)

	calls := 0
	err := b.Do(ctx, func(context.Context) error {
		calls++
		return nil
	})

	if !errors.Is(err, ErrOpen) {
		t.Errorf("error while open = %v, want ErrOpen", err)
	}
	if calls != 0 {
		t.Errorf("sink called %d times while open, want 0", calls)
	}
}

func TestBreaker_SuccessResetsTheCount(t *testing.T) {
	b := NewBreaker("test", 2, time.Minute, zap.NewNop())
	ctx := context.Background()

	b.Do(ctx, failing)
	b.Do(ctx, succeeding)
	b.Do(ctx, failing)

	if b.State() != StateClosed {
		t.Errorf("state after interleaved success = %v, want closed", b.State())
	}
}

func TestBreaker_ProbesAfterCooldown(t *testing.T) {
	b := NewBreaker("test", 1, 30*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	b.Do(ctx, failing)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	time.Sleep(50 * time.Millisecond)

	if b.State() != StateHalfOpen {
		t.Fatalf("state after cooldown = %v, want half-open", b.State())
	}
	if err := b.Do(ctx, succeeding); err != nil {
		t.Fatalf("probe error = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state after successful probe = %v, want closed", b.State())
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b := NewBreaker("test", 1, 30*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	b.Do(ctx, failing)
	time.Sleep(50 * time.Millisecond)

	if err := b.Do(ctx, failing); !errors.Is(err, errSink) {
		t.Fatalf("probe error = %v, want sink error", err)
	}
	if b.State() != StateOpen {
		t.Fatalf("state after failed probe = %v, want open", b.State())
	}
	if err := b.Do(ctx, succeeding); !errors.Is(err, ErrOpen) {
		t.Errorf("error after failed probe = %v, want ErrOpen", err)
	}
}

func TestBreaker_CancelledContextIsNotAFailure(t *testing.T) {
	b := NewBreaker("test", 1, time.Minute, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := b.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("sink called with cancelled context")
	}
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}
