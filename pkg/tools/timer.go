package tools

import (
	"sync"
	"time"
)

// Debounce 返回 fn 的防抖版本：每次调用都会重置计时器，
// 停止调用 delay 之后以最后一次的参数执行一次 fn。
func Debounce[T any](fn func(T), delay time.Duration) func(T) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() { fn(arg) })
	}
}

// Throttle 返回 fn 的节流版本：距上次执行超过 delay 时立即执行，
// 否则安排一次尾调用，新的尾调用会替换尚未执行的那一次。
func Throttle[T any](fn func(T), delay time.Duration) func(T) {
	var (
		mu       sync.Mutex
		lastCall time.Time
		timer    *time.Timer
	)
	return func(arg T) {
		mu.Lock()
		now := time.Now()

		if !lastCall.IsZero() && now.Sub(lastCall) < delay {
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, func() {
				mu.Lock()
				lastCall = now
				mu.Unlock()
				fn(arg)
			})
			mu.Unlock()
			return
		}

		lastCall = now
		mu.Unlock()
		fn(arg)
	}
}
