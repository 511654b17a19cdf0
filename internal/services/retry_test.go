package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyRetriesTransientUntilSuccess(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return Wrap(ErrTransient, "plex", "fetch", "", errors.New("timeout"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryPolicyStopsAtAttemptBudget(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	calls := 0
	transient := Wrap(ErrTransient, "plex", "fetch", "", errors.New("timeout"))
	err := policy.Do(context.Background(), func() error {
		calls++
		return transient
	})
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if !IsTransient(err) {
		t.Fatalf("expected last transient error, got %v", err)
	}
}

func TestRetryPolicyDoesNotRetryPermanent(t *testing.T) {
	policy := RetryPolicy{Attempts: 5, Backoff: time.Millisecond}
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return Wrap(ErrPermanent, "plex", "parse", "bad rating key", nil)
	})
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
	if !IsPermanent(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestRetryPolicyHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	calls := 0
	err := policy.Do(ctx, func() error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls after cancellation, got %d", calls)
	}
}
