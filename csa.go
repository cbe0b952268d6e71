// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

package isect

import "math/bits"

// vec128, vec256, and vec512 model one packed register of the
// corresponding width as a group of 64-bit words.  The fixed array
// sizes let the compiler unroll the per-word loops, so each helper
// compiles to straight-line code over the whole group.
type (
	vec128 [2]uint64
	vec256 [4]uint64
	vec512 [8]uint64
)

// and128 loads the 128-bit groups at word offset i of a and b and
// intersects them.
func and128(a, b []uint64, i int) vec128 {
	x := vec128(a[i : i+2])
	y := vec128(b[i : i+2])
	for k := range x {
		x[k] &= y[k]
	}
	return x
}

func and256(a, b []uint64, i int) vec256 {
	x := vec256(a[i : i+4])
	y := vec256(b[i : i+4])
	for k := range x {
		x[k] &= y[k]
	}
	return x
}

func and512(a, b []uint64, i int) vec512 {
	x := vec512(a[i : i+8])
	y := vec512(b[i : i+8])
	for k := range x {
		x[k] &= y[k]
	}
	return x
}

// csa128 is the carry-save adder at 128 bits: lo = a XOR b XOR c and
// hi = majority(a, b, c), applied bitwise across the group.
func csa128(a, b, c vec128) (lo, hi vec128) {
	for k := range a {
		u := a[k] ^ b[k]
		lo[k] = u ^ c[k]
		hi[k] = a[k]&b[k] | u&c[k]
	}
	return
}

func csa256(a, b, c vec256) (lo, hi vec256) {
	for k := range a {
		u := a[k] ^ b[k]
		lo[k] = u ^ c[k]
		hi[k] = a[k]&b[k] | u&c[k]
	}
	return
}

func csa512(a, b, c vec512) (lo, hi vec512) {
	for k := range a {
		u := a[k] ^ b[k]
		lo[k] = u ^ c[k]
		hi[k] = a[k]&b[k] | u&c[k]
	}
	return
}

// popcnt128 reduces a 128-bit group to a scalar population count by
// counting its two halves.
func popcnt128(v vec128) uint64 {
	return uint64(bits.OnesCount64(v[0]) + bits.OnesCount64(v[1]))
}

// popcnt256 returns the lane-wise population counts of v, one count
// per 64-bit lane.
func popcnt256(v vec256) vec256 {
	for k := range v {
		v[k] = uint64(bits.OnesCount64(v[k]))
	}
	return v
}

func popcnt512(v vec512) vec512 {
	for k := range v {
		v[k] = uint64(bits.OnesCount64(v[k]))
	}
	return v
}

func add256(a, b vec256) vec256 {
	for k := range a {
		a[k] += b[k]
	}
	return a
}

func add512(a, b vec512) vec512 {
	for k := range a {
		a[k] += b[k]
	}
	return a
}

func shl256(v vec256, s uint) vec256 {
	for k := range v {
		v[k] <<= s
	}
	return v
}

func shl512(v vec512, s uint) vec512 {
	for k := range v {
		v[k] <<= s
	}
	return v
}

func sum256(v vec256) uint64 {
	return v[0] + v[1] + v[2] + v[3]
}

func sum512(v vec512) uint64 {
	return v[0] + v[1] + v[2] + v[3] + v[4] + v[5] + v[6] + v[7]
}
