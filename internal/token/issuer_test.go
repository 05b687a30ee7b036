package token

import (
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("test-secret", "todolist", time.Hour)

	email := "dev@example.com"
	raw, exp, err := iss.IssueAccess("user-1", &email, "kakao")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if raw == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(exp); until < 55*time.Minute || until > 65*time.Minute {
		t.Fatalf("unexpected expiry horizon: %v", until)
	}

	claims, err := iss.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Provider != "kakao" {
		t.Fatalf("Provider = %q, want kakao", claims.Provider)
	}
	if claims.Email == nil || *claims.Email != email {
		t.Fatalf("Email = %v, want %q", claims.Email, email)
	}
}

func TestIssueWithoutEmail(t *testing.T) {
	iss := NewIssuer("test-secret", "todolist", time.Hour)

	raw, _, err := iss.IssueAccess("user-2", nil, "naver")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := iss.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Email != nil {
		t.Fatalf("Email = %q, want nil", *claims.Email)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a := NewIssuer("secret-a", "todolist", time.Hour)
	b := NewIssuer("secret-b", "todolist", time.Hour)

	raw, _, err := a.IssueAccess("user-1", nil, "kakao")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := b.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	a := NewIssuer("secret", "other-service", time.Hour)
	b := NewIssuer("secret", "todolist", time.Hour)

	raw, _, err := a.IssueAccess("user-1", nil, "kakao")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := b.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	iss := NewIssuer("secret", "todolist", -2*time.Minute)
	iss.AccessTTL = -2 * time.Minute // NewIssuer clamps; force a past expiry

	raw, _, err := iss.IssueAccess("user-1", nil, "kakao")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := iss.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	iss := NewIssuer("secret", "todolist", time.Hour)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c", strings.Repeat("x", 512)} {
		if _, err := iss.Verify(raw); err != ErrInvalidToken {
			t.Fatalf("Verify(%q) err = %v, want ErrInvalidToken", raw, err)
		}
	}
}
