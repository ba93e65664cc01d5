// Package clock supplies the monotonic-time collaborator used to
// uniquify module build ids, mirroring the fallback counter the original
// runtime bumps when the clock reads back zero or repeats under a coarse
// tick.
package clock

import (
	"sync/atomic"
	"time"
)

var fallback atomic.Uint64

// start anchors every reading: time.Since(start) measures with Go's
// monotonic clock, and start's wall time offsets the readings so that
// separate processes do not begin from the same value.
var start = time.Now()

// NextBuildIDLo returns a value suitable for a module's build_id low 64
// bits: a monotonic nanosecond reading, mixed with a process-wide fallback
// counter on every call so that the result is never zero and two calls
// landing in the same clock tick still differ.
func NextBuildIDLo() uint64 {
	lo := uint64(start.UnixNano()) + uint64(time.Since(start))
	if lo == 0 {
		lo = fallback.Add(1)
		return lo
	}

	// Mix in the fallback counter unconditionally so that two modules
	// constructed within the same clock tick still disagree.
	mixed := lo ^ (fallback.Add(1) << 1)
	if mixed == 0 {
		mixed = fallback.Add(1)
	}

	return mixed
}
