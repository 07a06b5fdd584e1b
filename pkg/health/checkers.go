package health

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// GoroutineCountCheck fails when the process exceeds threshold goroutines,
// a cheap proxy for leaked work.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return fmt.Errorf("%d goroutines exceed threshold %d", n, threshold)
		}
		return nil
	}
}

// GCMaxPauseCheck fails when the most recent garbage collection pause
// exceeded the threshold.
func GCMaxPauseCheck(threshold time.Duration) CheckFunc {
	return func(_ context.Context) error {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		pause := time.Duration(stats.PauseNs[(stats.NumGC+255)%256])
		if pause > threshold {
			return fmt.Errorf("last GC pause %s exceeds threshold %s", pause, threshold)
		}
		return nil
	}
}
