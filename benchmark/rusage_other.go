//go:build !unix

package benchmark

import "time"

// processCPUTime is not available on this platform; CPU time is reported as 0.
func processCPUTime() time.Duration {
	return 0
}
