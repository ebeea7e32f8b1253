// Package memconfig emits DRAM mapping matrices as loadable
// configurations. A configuration bundles the forward and inverse
// matrices of one scheme with the shift and mask constants that split
// the packed coordinate word, keyed by an identifier that encodes the
// controller topology.
package memconfig

import (
	"github.com/sarchlab/drammap/bitmatrix"
	"github.com/sarchlab/drammap/mapping"
)

// Identifier field shifts. Each axis holds an 8-bit device count,
// matching the CHANS/DIMMS/RANKS/BANKS macros of the C consumers.
const (
	chanShift = 24
	dimmShift = 16
	rankShift = 8
)

// Config is the loadable configuration derived from one mapping scheme.
// The packed coordinate word it describes carries the bank field on top,
// the column field in the middle, and the row field at shift zero.
type Config struct {
	Name       string `json:"name"`
	Identifier uint64 `json:"identifier"`

	BankShift uint64 `json:"bk_shift"`
	BankMask  uint64 `json:"bk_mask"`
	RowShift  uint64 `json:"row_shift"`
	RowMask   uint64 `json:"row_mask"`
	ColShift  uint64 `json:"col_shift"`
	ColMask   uint64 `json:"col_mask"`

	// AddrBits is the union of the physical address bits the scheme
	// references. Translators compact addresses through it before
	// applying the matrices.
	AddrBits uint64 `json:"addr_bits"`

	DRAMMatrix bitmatrix.Matrix `json:"dram_mtx"`
	AddrMatrix bitmatrix.Matrix `json:"addr_mtx"`
}

// New packages a scheme and its derived matrices into a Config. It
// computes the field layout from the scheme alone; use Derive to run the
// whole pipeline including validation and inversion.
func New(s mapping.Scheme, dram, addr bitmatrix.Matrix) Config {
	rowBits := uint64(s.RowFunction.Count())
	colBits := uint64(s.ColumnFunction.Count())
	bankBits := uint64(len(s.BankFunctions) + len(s.ChannelFunctions))

	return Config{
		Name: s.Name,
		Identifier: EncodeIdentifier(
			s.NumChannel, s.NumDIMM, s.NumRank, s.NumBank),
		BankShift:  rowBits + colBits,
		BankMask:   fieldMask(bankBits),
		RowShift:   0,
		RowMask:    fieldMask(rowBits),
		ColShift:   rowBits,
		ColMask:    fieldMask(colBits),
		AddrBits:   uint64(s.AddressBits()),
		DRAMMatrix: dram,
		AddrMatrix: addr,
	}
}

// Width returns the number of bits in the packed coordinate word.
func (c Config) Width() int {
	return c.DRAMMatrix.Width()
}

// EncodeIdentifier packs device counts into a config identifier, eight
// bits per axis.
func EncodeIdentifier(chans, dimms, ranks, banks uint64) uint64 {
	return chans<<chanShift | dimms<<dimmShift | ranks<<rankShift | banks
}

// DecodeIdentifier splits a config identifier into its device counts.
func DecodeIdentifier(id uint64) (chans, dimms, ranks, banks uint64) {
	return id >> chanShift & 0xff,
		id >> dimmShift & 0xff,
		id >> rankShift & 0xff,
		id & 0xff
}

func fieldMask(bits uint64) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<bits - 1
}
