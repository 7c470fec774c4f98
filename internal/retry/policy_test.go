package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/config"
)

// TestDefaultPolicy verifies the baseline default values.
func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.Mode != config.RetryBackoffLinear {
		t.Fatalf("expected linear default mode got %s", p.Mode)
	}
	if p.Initial != time.Second {
		t.Fatalf("expected initial 1s got %v", p.Initial)
	}
	if p.Max != 30*time.Second {
		t.Fatalf("expected max 30s got %v", p.Max)
	}
	if p.MaxRetries != 0 {
		t.Fatalf("expected no retries by default got %d", p.MaxRetries)
	}
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	if p.Initial != 2*time.Second {
		t.Fatalf("expected clamped initial 2s got %v", p.Initial)
	}
	if p.Mode != config.RetryBackoffFixed {
		t.Fatalf("expected fixed mode got %s", p.Mode)
	}
	if p.MaxRetries != 5 {
		t.Fatalf("expected maxRetries 5 got %d", p.MaxRetries)
	}
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{MaxRetries: 2, Backoff: "exponential", InitialDelay: "100ms", MaxDelay: "1s"})
	if p.Mode != config.RetryBackoffExponential || p.Initial != 100*time.Millisecond || p.Max != time.Second || p.MaxRetries != 2 {
		t.Fatalf("unexpected policy %+v", p)
	}
}

// TestDelayModes ensures fixed, linear, exponential behave and respect cap.
func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		if d := fixed.Delay(i); d != 100*time.Millisecond {
			t.Fatalf("fixed attempt %d expected 100ms got %v", i, d)
		}
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	cases := []struct {
		attempt int
		want    time.Duration
	}{{1, 100 * time.Millisecond}, {2, 200 * time.Millisecond}, {3, 250 * time.Millisecond}, {4, 250 * time.Millisecond}}
	for _, c := range cases {
		if got := linear.Delay(c.attempt); got != c.want {
			t.Fatalf("linear attempt %d expected %v got %v", c.attempt, c.want, got)
		}
	}

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	expCases := []struct {
		attempt int
		want    time.Duration
	}{{1, 50 * time.Millisecond}, {2, 100 * time.Millisecond}, {3, 160 * time.Millisecond}, {40, 160 * time.Millisecond}}
	for _, c := range expCases {
		if got := exp.Delay(c.attempt); got != c.want {
			t.Fatalf("exp attempt %d expected %v got %v", c.attempt, c.want, got)
		}
	}

	if d := linear.Delay(0); d != 0 {
		t.Fatalf("attempt 0 expected 0 got %v", d)
	}
}

// TestValidate covers validation error paths.
func TestValidate(t *testing.T) {
	if err := (Policy{Initial: 0, Max: time.Second}).Validate(); err == nil {
		t.Fatalf("expected error for zero initial")
	}
	if err := (Policy{Initial: time.Second, Max: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero max")
	}
	if err := (Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative retries")
	}
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestDo(t *testing.T) {
	errTransient := errors.New("transient")
	errPermanent := errors.New("permanent")
	fast := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 3)

	t.Run("succeeds after retries", func(t *testing.T) {
		var retries []int
		attempts, err := fast.Do(context.Background(), func(attempt int) error {
			if attempt < 3 {
				return errTransient
			}
			return nil
		}, nil, func(retry int, _ time.Duration, _ error) { retries = append(retries, retry) })
		if err != nil || attempts != 3 {
			t.Fatalf("attempts=%d err=%v", attempts, err)
		}
		if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
			t.Fatalf("unexpected retry callbacks %v", retries)
		}
	})

	t.Run("exhausts retries", func(t *testing.T) {
		attempts, err := fast.Do(context.Background(), func(int) error { return errTransient }, nil, nil)
		if !errors.Is(err, errTransient) || attempts != 4 {
			t.Fatalf("attempts=%d err=%v", attempts, err)
		}
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		attempts, err := fast.Do(context.Background(), func(int) error { return errPermanent },
			func(err error) bool { return !errors.Is(err, errPermanent) }, nil)
		if !errors.Is(err, errPermanent) || attempts != 1 {
			t.Fatalf("attempts=%d err=%v", attempts, err)
		}
	})

	t.Run("zero retries runs once", func(t *testing.T) {
		attempts, err := DefaultPolicy().Do(context.Background(), func(int) error { return errTransient }, nil, nil)
		if !errors.Is(err, errTransient) || attempts != 1 {
			t.Fatalf("attempts=%d err=%v", attempts, err)
		}
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		slow := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 5)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		attempts, err := slow.Do(ctx, func(int) error { return errTransient }, nil, nil)
		if !errors.Is(err, errTransient) || attempts != 1 {
			t.Fatalf("attempts=%d err=%v", attempts, err)
		}
	})
}
