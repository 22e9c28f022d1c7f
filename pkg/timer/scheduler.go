package timer

import (
	"sync"
	"time"
)

// tickerScheduler implements Scheduler with one time.Ticker per activity.
type tickerScheduler struct{}

// NewTickerScheduler returns the wall-clock scheduler.
func NewTickerScheduler() Scheduler {
	return tickerScheduler{}
}

// tickerHandle stops one ticker goroutine.
type tickerHandle struct {
	stop chan struct{}
	once sync.Once
}

// Every implements Scheduler.Every.
func (tickerScheduler) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				// A tick that lost the race with Cancel is dropped here.
				select {
				case <-h.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return h
}

// Cancel implements Handle.Cancel.
func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		close(h.stop)
	})
}
