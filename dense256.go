// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

package isect

import "math/bits"

// csaIntersect256 is the 256-bit Harley-Seal reduction.  Unlike the
// 128-bit variant the running counter is kept lane-wise and only
// reduced to a scalar at the end, after the residual accumulators
// have been folded in with their weights.
func csaIntersect256(a, b []uint64, groups int) uint64 {
	var cnt, ones, twos, fours, eights, sixteens vec256
	var twosA, twosB, foursA, foursB, eightsA, eightsB vec256

	limit := groups - groups%16
	i := 0
	for ; i < limit; i += 16 {
		w := 4 * i
		ones, twosA = csa256(ones, and256(a, b, w), and256(a, b, w+4))
		ones, twosB = csa256(ones, and256(a, b, w+8), and256(a, b, w+12))
		twos, foursA = csa256(twos, twosA, twosB)
		ones, twosA = csa256(ones, and256(a, b, w+16), and256(a, b, w+20))
		ones, twosB = csa256(ones, and256(a, b, w+24), and256(a, b, w+28))
		twos, foursB = csa256(twos, twosA, twosB)
		fours, eightsA = csa256(fours, foursA, foursB)
		ones, twosA = csa256(ones, and256(a, b, w+32), and256(a, b, w+36))
		ones, twosB = csa256(ones, and256(a, b, w+40), and256(a, b, w+44))
		twos, foursA = csa256(twos, twosA, twosB)
		ones, twosA = csa256(ones, and256(a, b, w+48), and256(a, b, w+52))
		ones, twosB = csa256(ones, and256(a, b, w+56), and256(a, b, w+60))
		twos, foursB = csa256(twos, twosA, twosB)
		fours, eightsB = csa256(fours, foursA, foursB)
		eights, sixteens = csa256(eights, eightsA, eightsB)

		cnt = add256(cnt, popcnt256(sixteens))
	}

	cnt = shl256(cnt, 4)
	cnt = add256(cnt, shl256(popcnt256(eights), 3))
	cnt = add256(cnt, shl256(popcnt256(fours), 2))
	cnt = add256(cnt, shl256(popcnt256(twos), 1))
	cnt = add256(cnt, popcnt256(ones))

	for ; i < groups; i++ {
		cnt = add256(cnt, popcnt256(and256(a, b, 4*i)))
	}

	return sum256(cnt)
}

// intersect256 is the dense kernel modelled on 256-bit packed
// registers.
func intersect256(a, b []uint64) uint64 {
	groups := len(a) / 4
	cnt := csaIntersect256(a, b, groups)

	for i := 4 * groups; i < len(a); i++ {
		cnt += uint64(bits.OnesCount64(a[i] & b[i]))
	}

	return cnt
}
