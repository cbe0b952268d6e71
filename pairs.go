// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

package isect

// blockTarget is the working-set target in bytes used to derive the
// block size of the tiled drivers.  A block of vectors should fit in
// the L2 cache together with the column vectors it is intersected
// with.
const blockTarget = 262144

// DefaultSparseCutoff is the set-bit count below which the sparse
// probe kernel beats a dense scan for typical vector widths.
const DefaultSparseCutoff = 50

// blockSize derives the tile edge from the per-vector byte size.  A
// quotient of zero (very wide vectors) falls back to the minimum
// useful block in forEachPairBlocked.
func blockSize(nWords int) int {
	return blockTarget / (nWords * 8)
}

// forEachPairBlocked walks the upper triangle of the n by n pair
// plane in square tiles of block rows by block columns, calling pair
// exactly once for every u < v.  Per row block it emits the diagonal
// tile, then full square tiles to the right, then the right-edge
// residual columns; rows beyond the last full block are paired in a
// plain tail loop.  The left operand of a tile is reused across all
// of its columns, which is where the cache locality comes from.
func forEachPairBlocked(n, block int, pair func(u, v int)) {
	if block <= 0 {
		block = 3
	}

	i := 0
	for ; i+block <= n; i += block {
		// diagonal tile
		for jj := 0; jj < block; jj++ {
			for kk := jj + 1; kk < block; kk++ {
				pair(i+jj, i+kk)
			}
		}

		// full square tiles
		j := i + block
		for ; j+block <= n; j += block {
			for jj := 0; jj < block; jj++ {
				for kk := 0; kk < block; kk++ {
					pair(i+jj, j+kk)
				}
			}
		}

		// right-edge residual columns
		for ; j < n; j++ {
			for jj := 0; jj < block; jj++ {
				pair(i+jj, j)
			}
		}
	}

	// remaining rows
	for ; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pair(i, j)
		}
	}
}

// forEachPair is the straight upper-triangle walk.  The blocked walk
// is tested against it.
func forEachPair(n int, pair func(u, v int)) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pair(i, j)
		}
	}
}

// countPairsBlocked sums f over every unordered pair of vectors in
// vals using the tiled walk.
func countPairsBlocked(vals []uint64, nVectors, nWords int, f kernelFunc, block int) uint64 {
	var total uint64
	forEachPairBlocked(nVectors, block, func(u, v int) {
		total += f(vals[u*nWords:(u+1)*nWords], vals[v*nWords:(v+1)*nWords])
	})

	return total
}

// sparsePairs carries the per-vector set-bit metadata of a collection
// through the tiled walk.
type sparsePairs struct {
	vals         []uint64
	nWords       int
	nAlts        []uint32
	altPositions []uint32
	altOffsets   []uint32
	dense        kernelFunc
	cutoff       uint32
}

func (s *sparsePairs) positions(u int) []uint32 {
	off := int(s.altOffsets[u])
	return s.altPositions[off : off+int(s.nAlts[u])]
}

// pair counts one intersection, probing by position list when either
// vector is below the cutoff and scanning densely otherwise.
func (s *sparsePairs) pair(u, v int) uint64 {
	a := s.vals[u*s.nWords : (u+1)*s.nWords]
	b := s.vals[v*s.nWords : (v+1)*s.nWords]
	if s.nAlts[u] < s.cutoff || s.nAlts[v] < s.cutoff {
		return intersectSparse(a, b, s.positions(u), s.positions(v))
	}

	return s.dense(a, b)
}

func countPairsSparseBlocked(s *sparsePairs, nVectors, block int) uint64 {
	var total uint64
	forEachPairBlocked(nVectors, block, func(u, v int) {
		total += s.pair(u, v)
	})

	return total
}

// CountPairs returns the sum over every unordered pair of vectors in
// vals of the population count of their bitwise intersection.  The
// buffer holds nVectors vectors of nWords words each, back to back,
// and should be aligned per Alignment.  The result is deterministic
// and independent of the kernel and block size chosen.
func CountPairs(vals []uint64, nVectors, nWords int) uint64 {
	checkCollection(vals, nVectors, nWords)
	if nVectors < 2 {
		return 0
	}

	return countPairsBlocked(vals, nVectors, nWords, kernelFor(nWords), blockSize(nWords))
}

// CountPairsSparse is CountPairs with per-vector set-bit metadata:
// nAlts[i] set bits of vector i, listed in ascending order in
// altPositions starting at altOffsets[i].  Pairs where either vector
// has fewer than cutoff set bits are counted with the probe kernel
// instead of a dense scan.  A cutoff of zero makes it equivalent to
// CountPairs.
func CountPairsSparse(vals []uint64, nVectors, nWords int, nAlts, altPositions, altOffsets []uint32, cutoff uint32) uint64 {
	checkCollection(vals, nVectors, nWords)
	if len(nAlts) < nVectors || len(altOffsets) < nVectors {
		panic("isect: set-bit metadata shorter than collection")
	}
	if nVectors < 2 {
		return 0
	}

	s := &sparsePairs{
		vals:         vals,
		nWords:       nWords,
		nAlts:        nAlts,
		altPositions: altPositions,
		altOffsets:   altOffsets,
		dense:        kernelFor(nWords),
		cutoff:       cutoff,
	}

	return countPairsSparseBlocked(s, nVectors, blockSize(nWords))
}

func checkCollection(vals []uint64, nVectors, nWords int) {
	if nVectors < 0 || nWords < 1 {
		panic("isect: invalid collection shape")
	}
	if len(vals) < nVectors*nWords {
		panic("isect: buffer shorter than collection")
	}
}
