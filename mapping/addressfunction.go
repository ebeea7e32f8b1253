package mapping

import (
	"fmt"
	"math/bits"
	"strings"
)

// AddressFunction selects a set of physical address bits. The XOR of the
// selected bits forms one DRAM coordinate bit.
type AddressFunction uint64

// Bit returns a function that selects the single address bit at pos.
func Bit(pos int) AddressFunction {
	return 1 << pos
}

// BitRange returns a function selecting address bits lo through hi,
// inclusive.
func BitRange(lo, hi int) AddressFunction {
	var f AddressFunction
	for b := lo; b <= hi; b++ {
		f |= 1 << b
	}
	return f
}

// Bits returns the selected bit positions in ascending order.
func (f AddressFunction) Bits() []int {
	ps := make([]int, 0, bits.OnesCount64(uint64(f)))
	for m := uint64(f); m != 0; m &= m - 1 {
		ps = append(ps, bits.TrailingZeros64(m))
	}
	return ps
}

// Count returns the number of selected bits.
func (f AddressFunction) Count() int {
	return bits.OnesCount64(uint64(f))
}

// String renders the function as an XOR of address bits, such as
// "a6^a13".
func (f AddressFunction) String() string {
	if f == 0 {
		return "0"
	}

	terms := make([]string, 0, f.Count())
	for _, b := range f.Bits() {
		terms = append(terms, fmt.Sprintf("a%d", b))
	}
	return strings.Join(terms, "^")
}
