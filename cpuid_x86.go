// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

//go:build amd64 || 386

package isect

import "golang.org/x/sys/cpu"

// probeCaps folds the cpu package's feature detection into the
// capability mask.  The cpu package only reports AVX2 when XCR0 shows
// SSE and YMM state enabled, and AVX-512 only with ZMM and opmask
// state on top, so a bit set here means both the instruction family
// and the OS-saved state checks passed.
func probeCaps() uint32 {
	var caps uint32

	x86 := &cpu.X86
	if x86.HasPOPCNT {
		caps |= capPOPCNT
	}
	if x86.HasSSE41 {
		caps |= capPacked128
	}
	if x86.HasAVX2 {
		caps |= capPacked256
	}
	if x86.HasAVX512BW {
		caps |= capPacked512
	}

	return caps
}
