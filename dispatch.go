// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

// All-pairs bitmap intersection counts.
//
// This package computes, for a collection of equally sized bitmap
// vectors, the sum over every unordered pair of vectors of the
// population count of their bitwise intersection.  The inner loop is
// a family of Harley-Seal carry-save kernels modelled on the 128, 256
// and 512 bit SIMD widths; the widest kernel supported by the CPU and
// justified by the vector size is chosen automatically at runtime.
// A probe-based kernel takes over for vectors known to carry few set
// bits.  The package works on all architectures supported by the Go
// toolchain; on non-x86 targets only the scalar kernel is selected.
//
// Vectors are stored back to back in a single caller-owned []uint64
// buffer.  For best performance the buffer should be aligned to the
// boundary reported by Alignment; AlignedWords allocates such a
// buffer.  See the example on CountPairs for the memory layout.
package isect

// kernelFunc is the contract shared by all dense kernels: given two
// equally long word slices, return popcount(a AND b) summed over all
// words.
type kernelFunc func(a, b []uint64) uint64

// each entry describes one dense kernel: the kernel itself, a name
// for tests and benchmarks, the capability bits the kernel is gated
// on, and the smallest per-vector word count for which selecting it
// pays off.  The entries are ordered widest first; the scalar kernel
// must remain last so a kernel can be selected under all
// circumstances.
type kernelImpl struct {
	kernel   kernelFunc
	name     string
	need     uint32
	minWords int
}

var kernelImpls = []kernelImpl{
	{intersect512, "harleyseal512", capPacked512, 128},
	{intersect256, "harleyseal256", capPacked256, 64},
	{intersect128, "harleyseal128", capPacked128, 32},
	{intersectScalar, "scalar", 0, 0},
}

// selectKernel picks the first kernel whose capability bits are all
// present in caps and whose minimum vector size is satisfied.  The
// minimum sizes keep the carry-save prologue amortised; vectors below
// a kernel's threshold fall through to a narrower kernel.
func selectKernel(caps uint32, nWords int) kernelImpl {
	for _, impl := range kernelImpls {
		if caps&impl.need == impl.need && nWords >= impl.minWords {
			return impl
		}
	}

	panic("isect: no kernel available")
}

// kernelFor returns the dense kernel used for vectors of nWords
// words.  The choice is a function of the capability mask and the
// word count only, so it is stable for the process lifetime.
func kernelFor(nWords int) kernelFunc {
	return selectKernel(capabilities(), nWords).kernel
}
