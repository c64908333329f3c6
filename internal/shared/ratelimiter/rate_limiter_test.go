package ratelimiter

import (
	"testing"
	"time"
)

func TestFixedDelayLimiter_WaitIfNeeded(t *testing.T) {
	t.Parallel()

	delay := 20 * time.Millisecond
	rl := NewFixedDelayLimiter(delay)

	// 初回の呼び出しでも待機する
	started := time.Now()
	rl.WaitIfNeeded()
	if elapsed := time.Since(started); elapsed < delay {
		t.Errorf("expected to wait at least %v, waited %v", delay, elapsed)
	}
}

func TestFixedDelayLimiter_ZeroDelay(t *testing.T) {
	t.Parallel()

	rl := NewFixedDelayLimiter(0)

	started := time.Now()
	rl.WaitIfNeeded()
	if elapsed := time.Since(started); elapsed > 5*time.Millisecond {
		t.Errorf("expected no wait, waited %v", elapsed)
	}
}
