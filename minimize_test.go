// Copyright (c) 2025 Johan Kvist <jk@kvists.se>

package isect

import "fmt"
import "strings"

const (
	// max number of entries in a printed test case
	maxKernelCaseSize = 100
)

// Take a dense kernel and a pair of operands and return true if the
// kernel agrees with the reference on them.
func kernelPasses(kernel kernelFunc, a, b []uint64) bool {
	return kernel(a, b) == intersectSafe(a, b)
}

// Take a failing test case for a dense kernel and try to find the
// smallest possible test case to trigger the error.  This is done by
// repeatedly clearing bits that do not cause the test case to pass
// when cleared.  An attempt is also made to reduce the length of the
// operands.  This function modifies its arguments and returns
// subslices of them.
func minimizeKernelCase(kernel kernelFunc, a, b []uint64) ([]uint64, []uint64) {
	// sanity check
	if kernelPasses(kernel, a, b) {
		return nil, nil
	}

	// try to turn off bits
	for _, tc := range [][]uint64{a, b} {
		for i := len(tc) - 1; i >= 0; i-- {
			for j := 63; j >= 0; j-- {
				if tc[i]&(1<<j) == 0 {
					continue
				}

				tc[i] &^= 1 << j
				if kernelPasses(kernel, a, b) {
					tc[i] |= 1 << j
				}
			}
		}
	}

	// try to shorten the operands
	for len(a) > 0 && !kernelPasses(kernel, a[:len(a)-1], b[:len(a)-1]) {
		a = a[:len(a)-1]
		b = b[:len(a)]
	}

	return a, b
}

// build a string representation of the minimised test case if it is
// not too long.  If it is too long, return the empty string.
func kernelCaseString(a, b []uint64) string {
	if len(a) == 0 {
		return "\tvar a, b [0]uint64"
	}

	var w strings.Builder
	entries := 0
	fmt.Fprintf(&w, "\tvar a, b [%d]uint64\n", len(a))
	for _, operand := range []struct {
		name string
		tc   []uint64
	}{{"a", a}, {"b", b}} {
		for i := range operand.tc {
			if operand.tc[i] == 0 {
				continue
			}

			entries++
			if entries > maxKernelCaseSize {
				return ""
			}

			fmt.Fprintf(&w, "\t%s[%d] = %#016x\n", operand.name, i, operand.tc[i])
		}
	}

	return w.String()
}
