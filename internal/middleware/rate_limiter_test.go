package middleware

import (
	"testing"
	"time"
)

func TestKeyedRateLimiterEnforcesBurst(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Hour, 2, time.Hour)

	if !limiter.Allow("1.2.3.4") {
		t.Fatalf("expected first request to pass")
	}
	if !limiter.Allow("1.2.3.4") {
		t.Fatalf("expected second request within burst to pass")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("expected third request to be limited")
	}
}

func TestKeyedRateLimiterIsolatesKeys(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Hour, 1, time.Hour)

	if !limiter.Allow("1.2.3.4") {
		t.Fatalf("expected first key to pass")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Fatalf("expected distinct key to pass")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("expected exhausted key to be limited")
	}
}

func TestKeyedRateLimiterExpiresIdleVisitors(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Hour, 1, time.Minute).(*keyedRateLimiter)

	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	limiter.Allow("1.2.3.4")
	if _, ok := limiter.visitors["1.2.3.4"]; !ok {
		t.Fatalf("expected visitor entry to exist")
	}

	limiter.now = func() time.Time { return base.Add(2 * time.Minute) }
	limiter.Allow("other")

	if _, ok := limiter.visitors["1.2.3.4"]; ok {
		t.Fatalf("expected idle visitor to be garbage collected")
	}
}
