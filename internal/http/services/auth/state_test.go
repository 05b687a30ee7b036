package auth

import (
	"strings"
	"testing"
	"time"

	cachemem "github.com/todolabs/todolist/internal/cache/memory"
)

func TestStateIssueConsume(t *testing.T) {
	s := NewStateStore(cachemem.New(time.Minute), time.Minute)

	state, err := s.Issue("kakao", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if state == "" {
		t.Fatal("empty state")
	}

	if !s.Consume("kakao", state) {
		t.Fatal("freshly issued state rejected")
	}
	if s.Consume("kakao", state) {
		t.Fatal("state consumed twice")
	}
}

func TestStateIsProviderBound(t *testing.T) {
	s := NewStateStore(cachemem.New(time.Minute), time.Minute)

	state, err := s.Issue("kakao", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if s.Consume("naver", state) {
		t.Fatal("state accepted for a different provider")
	}
	if !s.Consume("kakao", state) {
		t.Fatal("state lost after cross-provider attempt")
	}
}

func TestStateExpires(t *testing.T) {
	s := NewStateStore(cachemem.New(time.Minute), 20*time.Millisecond)

	state, err := s.Issue("kakao", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if s.Consume("kakao", state) {
		t.Fatal("expired state accepted")
	}
}

func TestStatesAreUnique(t *testing.T) {
	s := NewStateStore(cachemem.New(time.Minute), time.Minute)

	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		state, err := s.Issue("kakao", "")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if seen[state] {
			t.Fatalf("duplicate state %q", state)
		}
		seen[state] = true
	}
}

func TestMobileIssueStoresOnlyPrefixedState(t *testing.T) {
	s := NewStateStore(cachemem.New(time.Minute), time.Minute)

	state, err := s.Issue("kakao", MobileStatePrefix)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !strings.HasPrefix(state, MobileStatePrefix) {
		t.Fatalf("state %q missing prefix", state)
	}

	bare := strings.TrimPrefix(state, MobileStatePrefix)
	if s.Consume("kakao", bare) {
		t.Fatal("stripped state is consumable")
	}
	if !s.Consume("kakao", state) {
		t.Fatal("prefixed state rejected")
	}
}
