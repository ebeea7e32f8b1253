// Package bitmatrix provides square bit matrices over GF(2), the field
// where addition is XOR and multiplication is AND. Matrices of this kind
// describe XOR-based DRAM address interleaving: each row selects a set of
// input bits whose parity forms one output bit.
package bitmatrix

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// MaxWidth is the largest supported matrix width. Each row is packed into
// a single uint64 word.
const MaxWidth = 64

// Matrix is an immutable square bit matrix over GF(2). Rows are listed
// most significant output first: row i selects the input bits whose
// parity becomes bit Width-1-i of the output word. Hardware mapping
// tables are written in this order, and Matrix keeps it.
type Matrix struct {
	width int
	rows  []uint64
}

// SingularMatrixError reports a matrix that has no inverse over GF(2).
type SingularMatrixError struct {
	Width  int
	Column int
}

func (e SingularMatrixError) Error() string {
	return fmt.Sprintf(
		"bit matrix of width %d is singular, no pivot for column %d",
		e.Width, e.Column)
}

// New creates a Matrix from rows listed most significant output first.
// The width equals the number of rows. New panics if the width is not in
// [1, MaxWidth] or if a row selects a bit at or beyond the width.
func New(rows []uint64) Matrix {
	width := len(rows)
	if width < 1 || width > MaxWidth {
		panic(fmt.Sprintf("bitmatrix: width %d out of range", width))
	}

	r := make([]uint64, width)
	copy(r, rows)
	for i, row := range r {
		if row&^widthMask(width) != 0 {
			panic(fmt.Sprintf(
				"bitmatrix: row %d selects bits beyond width %d", i, width))
		}
	}

	return Matrix{width: width, rows: r}
}

// Identity returns the width×width identity matrix. Applying it returns
// the input unchanged.
func Identity(width int) Matrix {
	rows := make([]uint64, width)
	for i := range rows {
		rows[i] = 1 << (width - 1 - i)
	}
	return New(rows)
}

// Width returns the number of rows, which equals the number of input and
// output bits.
func (m Matrix) Width() int {
	return m.width
}

// Rows returns a copy of the packed rows, most significant output first.
func (m Matrix) Rows() []uint64 {
	rows := make([]uint64, m.width)
	copy(rows, m.rows)
	return rows
}

// Row returns the packed mask of row i.
func (m Matrix) Row(i int) uint64 {
	return m.rows[i]
}

// Apply multiplies the matrix with the input vector. Bit Width-1-i of the
// result is the parity of the input bits selected by row i. Input bits at
// or beyond the width are ignored.
func (m Matrix) Apply(x uint64) uint64 {
	x &= widthMask(m.width)

	var res uint64
	for _, row := range m.rows {
		res <<= 1
		res |= uint64(bits.OnesCount64(x&row) & 1)
	}
	return res
}

// Mul returns the composition of the two matrices: for every input x,
// m.Mul(n).Apply(x) == m.Apply(n.Apply(x)). Both matrices must have the
// same width.
func (m Matrix) Mul(n Matrix) Matrix {
	if m.width != n.width {
		panic(fmt.Sprintf(
			"bitmatrix: width mismatch, %d vs %d", m.width, n.width))
	}

	rows := make([]uint64, m.width)
	for i, row := range m.rows {
		var acc uint64
		for row != 0 {
			b := bits.TrailingZeros64(row)
			acc ^= n.rows[n.width-1-b]
			row &= row - 1
		}
		rows[i] = acc
	}
	return Matrix{width: m.width, rows: rows}
}

// Inverse returns the matrix that undoes m: inv.Apply(m.Apply(x)) == x
// for every x, and m.Mul(inv) equals the identity. It runs Gaussian
// elimination over GF(2) on an [A|I] augmented pair of packed words and
// returns a SingularMatrixError when some column has no pivot left.
func (m Matrix) Inverse() (Matrix, error) {
	w := m.width

	// Reorder to the plain row-i-makes-bit-i convention so elimination can
	// walk columns in their natural order. The row and bit reversals here,
	// together with reading the result rows back unreversed, cancel the
	// most-significant-first storage convention on both sides.
	a := make([]uint64, w)
	inv := make([]uint64, w)
	for i, row := range m.rows {
		a[w-1-i] = reverseBits(row, w)
		inv[i] = 1 << i
	}

	for col := 0; col < w; col++ {
		pivot := -1
		for r := col; r < w; r++ {
			if a[r]&(1<<col) != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return Matrix{}, SingularMatrixError{Width: w, Column: col}
		}

		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		for r := 0; r < w; r++ {
			if r != col && a[r]&(1<<col) != 0 {
				a[r] ^= a[col]
				inv[r] ^= inv[col]
			}
		}
	}

	return Matrix{width: w, rows: inv}, nil
}

// Equal reports whether the two matrices have the same width and rows.
func (m Matrix) Equal(n Matrix) bool {
	if m.width != n.width {
		return false
	}
	for i, row := range m.rows {
		if row != n.rows[i] {
			return false
		}
	}
	return true
}

// String renders the matrix as one binary line per row, most significant
// output first.
func (m Matrix) String() string {
	var sb strings.Builder
	for i, row := range m.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%0*b", m.width, row)
	}
	return sb.String()
}

// MarshalJSON encodes the matrix as its packed rows, most significant
// output first.
func (m Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.rows)
}

// UnmarshalJSON decodes a row array produced by MarshalJSON.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var rows []uint64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	width := len(rows)
	if width < 1 || width > MaxWidth {
		return fmt.Errorf("bitmatrix: width %d out of range", width)
	}
	for i, row := range rows {
		if row&^widthMask(width) != 0 {
			return fmt.Errorf(
				"bitmatrix: row %d selects bits beyond width %d", i, width)
		}
	}

	m.width = width
	m.rows = rows
	return nil
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (1 << width) - 1
}

func reverseBits(x uint64, width int) uint64 {
	return bits.Reverse64(x) >> (64 - width)
}
