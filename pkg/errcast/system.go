// system.go captures process state for attachment to crash reports.

package errcast

import (
	"os"
	"runtime"
	"time"
)

var processStart = time.Now()

// SystemTags returns a snapshot of process metrics as record tags:
// allocated memory, goroutine count, uptime in milliseconds, and hostname.
func SystemTags() Tags {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hostname, _ := os.Hostname() // Ignore error, empty hostname is acceptable

	uptimeMs := time.Since(processStart).Milliseconds()
	if uptimeMs < 0 {
		uptimeMs = 0
	}

	return Tags{
		"memoryBytes": int64(memStats.Alloc),
		"goroutines":  runtime.NumGoroutine(),
		"uptimeMs":    uptimeMs,
		"hostname":    hostname,
	}
}
