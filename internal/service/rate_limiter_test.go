package service

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 2)

	if !limiter.Allow("a@x.com") || !limiter.Allow("a@x.com") {
		t.Fatalf("first two requests must pass")
	}
	if limiter.Allow("a@x.com") {
		t.Fatalf("third request within the window must be blocked")
	}
	if !limiter.Allow("b@x.com") {
		t.Fatalf("a different key has its own budget")
	}
}
