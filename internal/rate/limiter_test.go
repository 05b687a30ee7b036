package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterEnforcesMax(t *testing.T) {
	l := NewMemoryLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d rejected below the limit", i+1)
		}
	}

	res, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("request above the limit allowed")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v, want positive", res.RetryAfter)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Hour)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatal("first hit for a rejected")
	}
	if res, _ := l.Allow(ctx, "b"); !res.Allowed {
		t.Fatal("first hit for b rejected")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatal("second hit for a allowed with max 1")
	}
}

func TestMemoryLimiterWindowRollover(t *testing.T) {
	l := NewMemoryLimiter(1, 10*time.Millisecond)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatal("first hit rejected")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatal("second hit in window allowed")
	}

	time.Sleep(15 * time.Millisecond)
	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatal("hit in fresh window rejected")
	}
}
