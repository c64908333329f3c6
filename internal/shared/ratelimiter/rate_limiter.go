package ratelimiter

import (
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// FixedDelayLimiter は呼び出しのたびに固定時間待機するリミッターです。
// 初回の呼び出しの前にも待機するため、外部APIへのリクエスト間隔は常にdelay以上になります。
type FixedDelayLimiter struct {
	delay time.Duration
}

// NewFixedDelayLimiter は新しいFixedDelayLimiterのインスタンスを生成します。
// delayが0以下の場合は待機しません。
func NewFixedDelayLimiter(delay time.Duration) *FixedDelayLimiter {
	return &FixedDelayLimiter{delay: delay}
}

// WaitIfNeeded は設定された待機時間だけ呼び出し元をブロックします。
func (rl *FixedDelayLimiter) WaitIfNeeded() {
	if rl.delay <= 0 {
		return
	}
	time.Sleep(rl.delay)
}
