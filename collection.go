// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

package isect

import (
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// A Collection owns an aligned flat buffer of equally sized bitmap
// vectors.  It is a convenience for callers that do not manage the
// buffer themselves; CountPairs and CountPairsSparse accept any
// properly laid out []uint64.
type Collection struct {
	words  []uint64
	n      int
	nWords int
}

// NewCollection allocates an aligned, zeroed collection of n vectors
// of width nBits bits.  The width is rounded up to the next multiple
// of 64, with a minimum of one word.
func NewCollection(n, nBits int) *Collection {
	nWords := (nBits + 63) / 64
	if nWords < 1 {
		nWords = 1
	}

	return &Collection{
		words:  AlignedWords(n * nWords),
		n:      n,
		nWords: nWords,
	}
}

// FromBitSets builds a collection of width nBits from one bitset per
// vector.  Bits at or beyond nBits are dropped.
func FromBitSets(sets []*bitset.BitSet, nBits int) *Collection {
	c := NewCollection(len(sets), nBits)
	for i, s := range sets {
		for p, ok := s.NextSet(0); ok && int(p) < nBits; p, ok = s.NextSet(p + 1) {
			c.Set(i, int(p))
		}
	}

	return c
}

// FromRoaring builds a collection of width nBits from one roaring
// bitmap per vector.  Bits at or beyond nBits are dropped.
func FromRoaring(maps []*roaring.Bitmap, nBits int) *Collection {
	c := NewCollection(len(maps), nBits)
	for i, m := range maps {
		it := m.Iterator()
		for it.HasNext() {
			p := int(it.Next())
			if p >= nBits {
				break
			}
			c.Set(i, p)
		}
	}

	return c
}

// Len returns the number of vectors.
func (c *Collection) Len() int { return c.n }

// WordsPerVector returns the vector width in 64-bit words.
func (c *Collection) WordsPerVector() int { return c.nWords }

// Words returns the backing buffer, nWords words per vector, back to
// back.
func (c *Collection) Words() []uint64 { return c.words }

// Vector returns the word slice of vector i.
func (c *Collection) Vector(i int) []uint64 {
	return c.words[i*c.nWords : (i+1)*c.nWords]
}

// Set sets bit p of vector i.
func (c *Collection) Set(i, p int) {
	c.words[i*c.nWords+p>>6] |= 1 << (p & 63)
}

// Bit reports bit p of vector i.
func (c *Collection) Bit(i, p int) bool {
	return c.words[i*c.nWords+p>>6]>>(p&63)&1 != 0
}

// PositionLists enumerates the set bits of every vector into the
// shared ascending position buffer consumed by CountPairsSparse.
func (c *Collection) PositionLists() (nAlts, altPositions, altOffsets []uint32) {
	nAlts = make([]uint32, c.n)
	altOffsets = make([]uint32, c.n)

	for i := 0; i < c.n; i++ {
		altOffsets[i] = uint32(len(altPositions))
		v := c.Vector(i)
		for w, word := range v {
			for ; word != 0; word &= word - 1 {
				altPositions = append(altPositions, uint32(w<<6+bits.TrailingZeros64(word)))
			}
		}
		nAlts[i] = uint32(len(altPositions)) - altOffsets[i]
	}

	return nAlts, altPositions, altOffsets
}

// CountPairs returns the all-pairs intersection count of the
// collection.
func (c *Collection) CountPairs() uint64 {
	return CountPairs(c.words, c.n, c.nWords)
}

// CountPairsSparse returns the all-pairs intersection count using the
// probe kernel for vectors with fewer than cutoff set bits.  The
// position lists are derived from the buffer on each call; callers
// doing repeated counts should hold on to PositionLists and call the
// package-level CountPairsSparse instead.
func (c *Collection) CountPairsSparse(cutoff uint32) uint64 {
	nAlts, altPositions, altOffsets := c.PositionLists()
	return CountPairsSparse(c.words, c.n, c.nWords, nAlts, altPositions, altOffsets, cutoff)
}
