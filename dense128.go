// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

package isect

import "math/bits"

// csaIntersect128 runs the Harley-Seal reduction over groups 128-bit
// groups of a AND b.  Sixteen groups are folded per iteration through
// a carry-save tree of depth four; only the tree root is population
// counted, so one popcount pays for sixteen groups.  At 128 bits the
// running counter is scalar.
func csaIntersect128(a, b []uint64, groups int) uint64 {
	var ones, twos, fours, eights, sixteens vec128
	var twosA, twosB, foursA, foursB, eightsA, eightsB vec128
	var cnt uint64

	limit := groups - groups%16
	i := 0
	for ; i < limit; i += 16 {
		w := 2 * i
		ones, twosA = csa128(ones, and128(a, b, w), and128(a, b, w+2))
		ones, twosB = csa128(ones, and128(a, b, w+4), and128(a, b, w+6))
		twos, foursA = csa128(twos, twosA, twosB)
		ones, twosA = csa128(ones, and128(a, b, w+8), and128(a, b, w+10))
		ones, twosB = csa128(ones, and128(a, b, w+12), and128(a, b, w+14))
		twos, foursB = csa128(twos, twosA, twosB)
		fours, eightsA = csa128(fours, foursA, foursB)
		ones, twosA = csa128(ones, and128(a, b, w+16), and128(a, b, w+18))
		ones, twosB = csa128(ones, and128(a, b, w+20), and128(a, b, w+22))
		twos, foursA = csa128(twos, twosA, twosB)
		ones, twosA = csa128(ones, and128(a, b, w+24), and128(a, b, w+26))
		ones, twosB = csa128(ones, and128(a, b, w+28), and128(a, b, w+30))
		twos, foursB = csa128(twos, twosA, twosB)
		fours, eightsB = csa128(fours, foursA, foursB)
		eights, sixteens = csa128(eights, eightsA, eightsB)

		cnt += popcnt128(sixteens)
	}

	cnt <<= 4
	cnt += popcnt128(eights) << 3
	cnt += popcnt128(fours) << 2
	cnt += popcnt128(twos) << 1
	cnt += popcnt128(ones)

	for ; i < groups; i++ {
		cnt += popcnt128(and128(a, b, 2*i))
	}

	return cnt
}

// intersect128 is the dense kernel modelled on 128-bit packed
// registers.
func intersect128(a, b []uint64) uint64 {
	groups := len(a) / 2
	cnt := csaIntersect128(a, b, groups)

	for i := 2 * groups; i < len(a); i++ {
		cnt += uint64(bits.OnesCount64(a[i] & b[i]))
	}

	return cnt
}
