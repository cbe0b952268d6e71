// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

package isect

import "sync/atomic"

// Capability bits recording which packed-integer instruction families
// the CPU supports and the operating system has enabled.  The dense
// kernels are gated on the packed bits; capPOPCNT is reported for
// completeness.
const (
	capPOPCNT    = 1 << iota // 64-bit hardware population count
	capPacked128             // 128-bit packed integer operations (SSE4.1 class)
	capPacked256             // 256-bit packed integer operations (AVX2 class)
	capPacked512             // 512-bit packed byte/word operations (AVX-512BW class)
)

// capUninit marks the capability cache as not yet probed.  It is
// outside the range of valid masks.
const capUninit uint32 = 1 << 31

var capCache uint32 = capUninit

// capabilities returns the process-wide capability mask, probing the
// CPU on first use.  Concurrent first callers may each run the probe,
// but the probe is a pure function of the hardware, so every caller
// computes the same value and a single compare-and-swap publishes it.
func capabilities() uint32 {
	caps := atomic.LoadUint32(&capCache)
	if caps == capUninit {
		caps = probeCaps()
		atomic.CompareAndSwapUint32(&capCache, capUninit, caps)
	}

	return caps
}
