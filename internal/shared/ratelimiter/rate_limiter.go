// Package ratelimiter はキー（クライアントIPなど）ごとの固定ウィンドウ方式レートリミッターを提供します。
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// Limiter は操作を許可してよいかを判定するインターフェースです。
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// window はキーごとの計数状態です。
type window struct {
	count     int
	lastReset time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// RateLimiterは、キーごとに interval あたり limit 回まで操作を許可します。
// 上限を超えた呼び出しは待機せずに拒否します。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
	windows  map[string]*window
	now      func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allowはkeyの今回の呼び出しが上限内であればtrueを返します。
// limitが0以下の場合は常に許可します。
func (rl *RateLimiter) Allow(_ context.Context, key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.sweep(now)
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// RetryAfterはkeyのウィンドウがリセットされるまでの残り時間を返します。
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		return 0
	}
	d := rl.interval - rl.now().Sub(w.lastReset)
	if d < 0 {
		return 0
	}
	return d
}

// sweepは期限切れのウィンドウを削除し、マップが際限なく大きくならないようにします。
// 呼び出し側でロックを保持している必要があります。
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
