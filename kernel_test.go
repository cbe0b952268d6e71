package isect

import "math/rand"
import "testing"

// standard word counts to try, chosen to straddle the group and
// chunk boundaries of every kernel
var testWordCounts = []int{
	0, 1, 2, 3, 4, 5, 7, 8, 9,
	15, 16, 17,
	31, 32, 33, 34, 47,
	63, 64, 65,
	127, 128, 129,
	255, 256, 257,
	511, 512, 513,
	1023, 1024, 1025,
}

// fill a buffer with random words
func randomWords(n int) []uint64 {
	buf := make([]uint64, n)
	for i := range buf {
		buf[i] = rand.Uint64()
	}

	return buf
}

// test the correctness of a dense kernel
func testKernel(t *testing.T, kernel kernelFunc) {
	for _, n := range testWordCounts {
		a := randomWords(n)
		b := randomWords(n)

		got := kernel(a, b)
		want := intersectSafe(a, b)
		if got != want {
			a, b = minimizeKernelCase(kernel, a, b)
			t.Errorf("%d words: got %d, want %d\n%s", n, got, want, kernelCaseString(a, b))
		}
	}
}

// test the correctness of every dense kernel; the kernels are
// portable, so none of them needs to be skipped
func TestKernels(t *testing.T) {
	for i := range kernelImpls {
		t.Run(kernelImpls[i].name, func(t *testing.T) {
			testKernel(t, kernelImpls[i].kernel)
		})
	}
}

// all-ones operands push a carry through every level of the
// carry-save tree
func TestKernelsAllOnes(t *testing.T) {
	for i := range kernelImpls {
		kernel := kernelImpls[i].kernel
		t.Run(kernelImpls[i].name, func(t *testing.T) {
			for _, n := range testWordCounts {
				a := make([]uint64, n)
				for j := range a {
					a[j] = ^uint64(0)
				}

				if got := kernel(a, a); got != uint64(64*n) {
					t.Errorf("%d words: got %d, want %d", n, got, 64*n)
				}
			}
		})
	}
}

// disjoint operands must come out as zero on every kernel path
func TestKernelsDisjoint(t *testing.T) {
	const odd = 0xaaaaaaaaaaaaaaaa

	for i := range kernelImpls {
		kernel := kernelImpls[i].kernel
		t.Run(kernelImpls[i].name, func(t *testing.T) {
			for _, n := range testWordCounts {
				a := make([]uint64, n)
				b := make([]uint64, n)
				for j := range a {
					a[j] = odd
					b[j] = ^uint64(odd)
				}

				if got := kernel(a, b); got != 0 {
					t.Errorf("%d words: got %d, want 0", n, got)
				}
			}
		})
	}
}

// the sparse kernel against the reference, with lists derived by
// set-bit enumeration
func TestSparseKernel(t *testing.T) {
	for _, n := range testWordCounts {
		a := randomWords(n)
		b := sparseWords(n, 3)

		got := intersectSparse(a, b, bitPositions(a), bitPositions(b))
		want := intersectSafe(a, b)
		if got != want {
			t.Errorf("%d words: got %d, want %d", n, got, want)
		}
	}
}

// the probe kernel must give the same count regardless of argument
// order, whichever list is the shorter one
func TestSparseKernelCommutes(t *testing.T) {
	a := randomWords(64)
	b := sparseWords(64, 2)

	pa := bitPositions(a)
	pb := bitPositions(b)

	want := intersectSafe(a, b)
	if got := intersectSparse(a, b, pa, pb); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
	if got := intersectSparse(b, a, pb, pa); got != want {
		t.Errorf("swapped: got %d, want %d", got, want)
	}
}

// a buffer with a handful of set bits per 64 words
func sparseWords(n, perChunk int) []uint64 {
	buf := make([]uint64, n)
	for i := 0; i < perChunk*(n/64+1); i++ {
		if n > 0 {
			p := rand.Intn(n * 64)
			buf[p>>6] |= 1 << (p & 63)
		}
	}

	return buf
}

// enumerate the set bits of a buffer in ascending order
func bitPositions(buf []uint64) []uint32 {
	var pos []uint32
	for i, w := range buf {
		for j := uint32(0); j < 64; j++ {
			if w>>j&1 != 0 {
				pos = append(pos, uint32(i)<<6|j)
			}
		}
	}

	return pos
}
