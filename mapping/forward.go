package mapping

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/drammap/bitmatrix"
)

// DimensionError reports a scheme whose referenced address bits cannot
// fill a square matrix of the scheme's width.
type DimensionError struct {
	Scheme     string
	Width      int
	Referenced int
}

func (e DimensionError) Error() string {
	if e.Width < 1 || e.Width > bitmatrix.MaxWidth {
		return fmt.Sprintf("scheme %s: matrix width %d out of range [1, %d]",
			e.Scheme, e.Width, bitmatrix.MaxWidth)
	}
	return fmt.Sprintf(
		"scheme %s: matrix width %d needs as many distinct address bits, %d referenced",
		e.Scheme, e.Width, e.Referenced)
}

// ForwardMatrix builds the matrix that carries a compacted physical
// address into the packed DRAM coordinate word. Rows follow the packing
// order of the word: bank functions first, then channel functions, then
// column bits from high to low, then row bits from high to low, so the
// row field lands at the bottom of the word.
//
// Matrix columns are compacted address-bit positions: the rank of an
// address bit within the ascending union of all referenced bits. The
// union must hold exactly Width bits, otherwise the matrix cannot be
// square and a DimensionError is returned.
func ForwardMatrix(s Scheme) (bitmatrix.Matrix, error) {
	w := s.Width()
	union := uint64(s.AddressBits())
	referenced := bits.OnesCount64(union)

	if w < 1 || w > bitmatrix.MaxWidth || referenced != w {
		return bitmatrix.Matrix{}, DimensionError{
			Scheme:     s.Name,
			Width:      w,
			Referenced: referenced,
		}
	}

	rows := make([]uint64, 0, w)
	for _, f := range s.bankBlockFunctions() {
		rows = append(rows, compact(uint64(f), union))
	}
	rows = append(rows, fieldRows(s.ColumnFunction, union)...)
	rows = append(rows, fieldRows(s.RowFunction, union)...)

	return bitmatrix.New(rows), nil
}

// compact moves every set bit of x to the rank its position holds within
// the set bits of union. x must only select bits present in union.
func compact(x, union uint64) uint64 {
	var out uint64
	for m := x; m != 0; m &= m - 1 {
		b := bits.TrailingZeros64(m)
		out |= 1 << bits.OnesCount64(union&(1<<b-1))
	}
	return out
}

// fieldRows expands a row or column mask into one single-bit matrix row
// per selected address bit, highest bit first.
func fieldRows(f AddressFunction, union uint64) []uint64 {
	mask := uint64(f)
	rows := make([]uint64, 0, bits.OnesCount64(mask))
	for mask != 0 {
		b := 63 - bits.LeadingZeros64(mask)
		rows = append(rows, compact(1<<b, union))
		mask &^= 1 << b
	}
	return rows
}
