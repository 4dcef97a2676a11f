package services

import (
	"crypto/subtle"
	"time"

	"golang.org/x/crypto/bcrypt"

	"projectpan/internal/config"
	"projectpan/internal/domain"
	"projectpan/internal/repos"
	"projectpan/internal/validate"
)

const (
	MaxAttempts   = 5
	WindowMinutes = 15
)

// AuthService verifies the shared PIN behind a DB-backed sliding-window
// rate limit and validates the fixed session token.
type AuthService struct {
	Attempts *repos.AttemptRepo
	Cfg      config.Config
}

func NewAuthService(attempts *repos.AttemptRepo, cfg config.Config) *AuthService {
	return &AuthService{Attempts: attempts, Cfg: cfg}
}

// Allow reports whether a client may attempt a PIN right now: fewer than
// MaxAttempts recorded within the trailing window.
func (s *AuthService) Allow(ip string, now time.Time) (bool, error) {
	n, err := s.Attempts.CountSince(ip, now.Add(-WindowMinutes*time.Minute))
	if err != nil {
		return false, err
	}
	return n < MaxAttempts, nil
}

// RecordAttempt logs a failed or malformed submission. Never called on
// success.
func (s *AuthService) RecordAttempt(ip string, now time.Time) error {
	return s.Attempts.Record(ip, now)
}

// VerifyPIN runs the full gate: rate limit, format check, bcrypt compare.
// Malformed input counts against the limit just like a wrong PIN, so the
// limiter cannot be bypassed with invalid-format submissions.
func (s *AuthService) VerifyPIN(ip, pin string, now time.Time) error {
	if s.Cfg.PinHash == "" || s.Cfg.AuthToken == "" {
		return domain.ErrNotConfigured
	}

	ok, err := s.Allow(ip, now)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRateLimited
	}

	if !validate.PIN(pin) {
		if err := s.RecordAttempt(ip, now); err != nil {
			return err
		}
		return domain.ErrInvalidPIN
	}

	if bcrypt.CompareHashAndPassword([]byte(s.Cfg.PinHash), []byte(pin)) != nil {
		if err := s.RecordAttempt(ip, now); err != nil {
			return err
		}
		return domain.ErrBadPIN
	}
	return nil
}

// ValidToken compares a presented session token against the configured
// one in constant time. Absent values are simply false, never an error.
func (s *AuthService) ValidToken(presented string) bool {
	valid := s.Cfg.AuthToken
	if presented == "" || valid == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(valid)) == 1
}

// Prune drops attempts older than the window. Triggered externally, not
// self-scheduled.
func (s *AuthService) Prune(now time.Time) (int64, error) {
	return s.Attempts.PruneBefore(now.Add(-WindowMinutes * time.Minute))
}
