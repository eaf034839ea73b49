package util

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"connection reset", syscall.ECONNRESET, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"timed out", syscall.ETIMEDOUT, true},
		{"wrapped reset", fmt.Errorf("request failed: %w", syscall.ECONNRESET), true},
		{"timeout message", errors.New("context deadline exceeded (Client.Timeout exceeded)"), true},
		{"service unavailable message", errors.New("unexpected status 503: service unavailable"), true},
		{"rate limited message", errors.New("unexpected status 429: too many requests"), true},
		{"permission denied", syscall.EACCES, false},
		{"plain error", errors.New("no such playlist"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.retryable {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestRetryWithBackoffSucceedsAfterTransientFailures(t *testing.T) {
	cfg := &RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
	}

	attempts := 0
	result, err := RetryWithBackoff(cfg, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", syscall.ECONNRESET
		}
		return "ok", nil
	}, "test-op")

	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result 'ok', got %q", result)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoffStopsOnNonRetryable(t *testing.T) {
	cfg := &RetryConfig{
		MaxAttempts: 5,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
	}

	permanent := errors.New("invalid credentials")
	attempts := 0
	_, err := RetryWithBackoff(cfg, func() (int, error) {
		attempts++
		return 0, permanent
	}, "test-op")

	if !errors.Is(err, permanent) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestRetryWithBackoffExhaustsAttempts(t *testing.T) {
	cfg := &RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
	}

	attempts := 0
	err := Retry(cfg, func() error {
		attempts++
		return syscall.ETIMEDOUT
	}, "test-op")

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}
