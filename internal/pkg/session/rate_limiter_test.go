package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestDisabledLimiterAllows(t *testing.T) {
	t.Parallel()

	for _, r := range []*RateLimiter{nil, NewRateLimiter(nil, 3, time.Minute)} {
		for i := 0; i < 5; i++ {
			ok, _, err := r.CheckLoginAttempt(context.Background(), "10.0.0.1")
			if err != nil || !ok {
				t.Fatalf("CheckLoginAttempt() = %v, %v, want allowed", ok, err)
			}
		}
		if err := r.ResetLoginAttempts(context.Background(), "10.0.0.1"); err != nil {
			t.Errorf("ResetLoginAttempts() error = %v", err)
		}
	}
}

func TestNewRateLimiterDefaults(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(nil, 0, 0)
	if r.maxAttempts != DefaultMaxAttempts || r.window != DefaultWindow {
		t.Errorf("limits = %d/%v, want %d/%v", r.maxAttempts, r.window, DefaultMaxAttempts, DefaultWindow)
	}
	if got := loginKey("10.0.0.1"); got != "ratelimit:login:10.0.0.1" {
		t.Errorf("loginKey() = %q", got)
	}
}

func newTestLimiter(t *testing.T, max int64, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, max, window), mr
}

func TestCheckLoginAttemptCounts(t *testing.T) {
	t.Parallel()

	r, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i, wantLeft := range []int64{2, 1, 0} {
		ok, left, err := r.CheckLoginAttempt(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("attempt %d: error = %v", i+1, err)
		}
		if !ok || left != wantLeft {
			t.Errorf("attempt %d = %v, %d; want allowed, %d left", i+1, ok, left, wantLeft)
		}
	}

	ok, left, err := r.CheckLoginAttempt(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("attempt 4: error = %v", err)
	}
	if ok || left != 0 {
		t.Errorf("attempt 4 = %v, %d; want denied, 0 left", ok, left)
	}

	// Other clients keep their own counters.
	if ok, _, _ := r.CheckLoginAttempt(ctx, "10.0.0.2"); !ok {
		t.Error("second client denied, want allowed")
	}
}

func TestCheckLoginAttemptWindow(t *testing.T) {
	t.Parallel()

	r, mr := newTestLimiter(t, 1, 15*time.Minute)
	ctx := context.Background()

	if ok, _, _ := r.CheckLoginAttempt(ctx, "10.0.0.1"); !ok {
		t.Fatal("first attempt denied")
	}
	if got := mr.TTL(loginKey("10.0.0.1")); got != 15*time.Minute {
		t.Errorf("TTL = %v, want %v", got, 15*time.Minute)
	}

	mr.FastForward(5 * time.Minute)
	if ok, _, _ := r.CheckLoginAttempt(ctx, "10.0.0.1"); ok {
		t.Fatal("second attempt inside window allowed")
	}
	// Later attempts do not extend the window.
	if got := mr.TTL(loginKey("10.0.0.1")); got != 10*time.Minute {
		t.Errorf("TTL after retry = %v, want %v", got, 10*time.Minute)
	}

	mr.FastForward(10 * time.Minute)
	if ok, left, _ := r.CheckLoginAttempt(ctx, "10.0.0.1"); !ok || left != 0 {
		t.Errorf("attempt after window = %v, %d; want allowed, 0 left", ok, left)
	}
}

func TestResetLoginAttempts(t *testing.T) {
	t.Parallel()

	r, mr := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r.CheckLoginAttempt(ctx, "10.0.0.1")
	}
	if err := r.ResetLoginAttempts(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("ResetLoginAttempts() error = %v", err)
	}
	if mr.Exists(loginKey("10.0.0.1")) {
		t.Error("counter still present after reset")
	}
	if ok, left, _ := r.CheckLoginAttempt(ctx, "10.0.0.1"); !ok || left != 1 {
		t.Errorf("attempt after reset = %v, %d; want allowed, 1 left", ok, left)
	}
}

func TestCheckLoginAttemptFailsOpen(t *testing.T) {
	t.Parallel()

	r, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	ok, _, err := r.CheckLoginAttempt(context.Background(), "10.0.0.1")
	if err == nil {
		t.Fatal("error = nil, want redis failure")
	}
	if !ok {
		t.Error("allowed = false, want fail-open")
	}
}
