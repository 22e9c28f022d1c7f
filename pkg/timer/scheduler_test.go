package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerSchedulerFiresAndCancels(t *testing.T) {
	var count atomic.Int32
	h := NewTickerScheduler().Every(5*time.Millisecond, func() {
		count.Add(1)
	})

	assert.Eventually(t, func() bool {
		return count.Load() >= 3
	}, time.Second, time.Millisecond)

	h.Cancel()
	h.Cancel()

	// Allow an in-flight call to land, then expect silence.
	time.Sleep(20 * time.Millisecond)
	settled := count.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, count.Load())
}
