package services_test

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"projectpan/internal/config"
	"projectpan/internal/domain"
	"projectpan/internal/repos"
	"projectpan/internal/services"
)

func newAuthService(t *testing.T, pin string) (*services.AuthService, *repos.AttemptRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	cfg := config.Config{AuthToken: "tok-0123456789abcdef"}
	if pin != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
		if err != nil {
			t.Fatal(err)
		}
		cfg.PinHash = string(h)
	}
	attempts := repos.NewAttemptRepo(db)
	return services.NewAuthService(attempts, cfg), attempts
}

func TestRateLimitSlidingWindow(t *testing.T) {
	svc, _ := newAuthService(t, "1234")
	ip := "203.0.113.7"
	t0 := time.Date(2024, time.November, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < services.MaxAttempts-1; i++ {
		if err := svc.RecordAttempt(ip, t0); err != nil {
			t.Fatal(err)
		}
	}
	ok, err := svc.Allow(ip, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("allow = false after %d attempts, want true", services.MaxAttempts-1)
	}

	if err := svc.RecordAttempt(ip, t0); err != nil {
		t.Fatal(err)
	}
	ok, err = svc.Allow(ip, t0)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("allow = true after %d attempts, want false", services.MaxAttempts)
	}

	// Another client is unaffected.
	ok, _ = svc.Allow("198.51.100.1", t0)
	if !ok {
		t.Fatal("unrelated client was rate limited")
	}

	// 16 minutes later the window has slid past every attempt.
	ok, err = svc.Allow(ip, t0.Add(16*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("allow = false 16 minutes after the attempts, want true")
	}
}

func TestVerifyPIN(t *testing.T) {
	svc, attempts := newAuthService(t, "1234")
	ip := "203.0.113.8"
	now := time.Date(2024, time.November, 10, 12, 0, 0, 0, time.UTC)
	windowStart := now.Add(-services.WindowMinutes * time.Minute)

	countAttempts := func() int {
		t.Helper()
		n, err := attempts.CountSince(ip, windowStart)
		if err != nil {
			t.Fatal(err)
		}
		return n
	}

	// Wrong PIN fails and records an attempt.
	if err := svc.VerifyPIN(ip, "9999", now); !errors.Is(err, domain.ErrBadPIN) {
		t.Fatalf("wrong pin: err = %v, want ErrBadPIN", err)
	}
	if n := countAttempts(); n != 1 {
		t.Fatalf("attempts after wrong pin = %d, want 1", n)
	}

	// Malformed PIN also counts against the limit.
	if err := svc.VerifyPIN(ip, "12", now); !errors.Is(err, domain.ErrInvalidPIN) {
		t.Fatalf("short pin: err = %v, want ErrInvalidPIN", err)
	}
	if err := svc.VerifyPIN(ip, "123456789", now); !errors.Is(err, domain.ErrInvalidPIN) {
		t.Fatalf("long pin: err = %v, want ErrInvalidPIN", err)
	}
	if n := countAttempts(); n != 3 {
		t.Fatalf("attempts after malformed pins = %d, want 3", n)
	}

	// Correct PIN succeeds and records nothing.
	if err := svc.VerifyPIN(ip, "1234", now); err != nil {
		t.Fatalf("correct pin: err = %v", err)
	}
	if n := countAttempts(); n != 3 {
		t.Fatalf("attempts after success = %d, want 3 (unchanged)", n)
	}

	// Exhaust the window: even the correct PIN is rejected.
	for countAttempts() < services.MaxAttempts {
		if err := svc.RecordAttempt(ip, now); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.VerifyPIN(ip, "1234", now); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("rate limited: err = %v, want ErrRateLimited", err)
	}
}

func TestVerifyPIN_NotConfigured(t *testing.T) {
	svc, _ := newAuthService(t, "")
	err := svc.VerifyPIN("203.0.113.9", "1234", time.Now())
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestValidToken(t *testing.T) {
	svc, _ := newAuthService(t, "1234")

	if !svc.ValidToken("tok-0123456789abcdef") {
		t.Fatal("exact token rejected")
	}
	if svc.ValidToken("tok-0123456789abcdeX") {
		t.Fatal("token differing in last character accepted")
	}
	if svc.ValidToken("tok-0123456789abcde") {
		t.Fatal("shorter token accepted")
	}
	if svc.ValidToken("") {
		t.Fatal("empty token accepted")
	}
}

func TestPrune(t *testing.T) {
	svc, _ := newAuthService(t, "1234")
	ip := "203.0.113.10"
	now := time.Date(2024, time.November, 10, 12, 0, 0, 0, time.UTC)

	if err := svc.RecordAttempt(ip, now.Add(-20*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordAttempt(ip, now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	n, err := svc.Prune(now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("prune deleted %d rows, want 1 (only the stale one)", n)
	}

	// Idempotent: nothing left outside the window.
	n, err = svc.Prune(now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("second prune deleted %d rows, want 0", n)
	}
}
