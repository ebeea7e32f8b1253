// Package dramaddr translates between physical addresses and DRAM
// coordinates using a derived mapping configuration. It is the consumer
// side of the pipeline: the matrices are built elsewhere, a Translator
// only applies them.
package dramaddr

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/drammap/memconfig"
)

// Addr locates one DRAM cell: the packed bank field (rank and channel
// selectors included), the row, and the column.
type Addr struct {
	Bank uint64 `json:"bank"`
	Row  uint64 `json:"row"`
	Col  uint64 `json:"col"`
}

// Add returns the address moved by the given coordinate increments.
func (a Addr) Add(bankInc, rowInc, colInc uint64) Addr {
	return Addr{
		Bank: a.Bank + bankInc,
		Row:  a.Row + rowInc,
		Col:  a.Col + colInc,
	}
}

// String renders the address in the compact (bank,row,col) form.
func (a Addr) String() string {
	return fmt.Sprintf("(%d,%d,%d)", a.Bank, a.Row, a.Col)
}

// Translator converts physical addresses to DRAM coordinates and back
// with one configuration. The zero base maps addresses inside the
// configuration's address range; SetBase anchors the translator to a
// buffer elsewhere.
type Translator struct {
	cfg  memconfig.Config
	base uint64
}

// NewTranslator returns a translator for the given configuration with a
// zero base.
func NewTranslator(cfg memconfig.Config) *Translator {
	return &Translator{cfg: cfg}
}

// FromTable returns a translator for the table entry with the given
// identifier.
func FromTable(t *memconfig.Table, id uint64) (*Translator, bool) {
	cfg, ok := t.Lookup(id)
	if !ok {
		return nil, false
	}
	return NewTranslator(cfg), true
}

// Config returns the configuration the translator applies.
func (t *Translator) Config() memconfig.Config {
	return t.cfg
}

// SetBase records the bits of addr that lie outside the configuration's
// address range. Unmap ORs them back into every address it produces.
func (t *Translator) SetBase(addr uint64) {
	t.base = addr &^ t.cfg.AddrBits
}

// Map converts a physical address into DRAM coordinates. Address bits
// outside the configuration's range are ignored.
func (t *Translator) Map(addr uint64) Addr {
	word := t.cfg.DRAMMatrix.Apply(compact(addr, t.cfg.AddrBits))
	return Addr{
		Bank: word >> t.cfg.BankShift & t.cfg.BankMask,
		Row:  word >> t.cfg.RowShift & t.cfg.RowMask,
		Col:  word >> t.cfg.ColShift & t.cfg.ColMask,
	}
}

// Unmap converts DRAM coordinates back into a physical address on top of
// the translator base. It inverts Map for every address whose bits
// outside the configuration's range equal the base.
func (t *Translator) Unmap(a Addr) uint64 {
	word := a.Bank<<t.cfg.BankShift |
		a.Row<<t.cfg.RowShift |
		a.Col<<t.cfg.ColShift
	return expand(t.cfg.AddrMatrix.Apply(word), t.cfg.AddrBits) | t.base
}

// compact gathers the addr bits selected by mask into a dense low field,
// preserving their order.
func compact(addr, mask uint64) uint64 {
	var out uint64
	i := 0
	for m := mask; m != 0; m &= m - 1 {
		b := bits.TrailingZeros64(m)
		out |= (addr >> b & 1) << i
		i++
	}
	return out
}

// expand scatters the dense low bits of word onto the bits selected by
// mask, undoing compact.
func expand(word, mask uint64) uint64 {
	var out uint64
	i := 0
	for m := mask; m != 0; m &= m - 1 {
		b := bits.TrailingZeros64(m)
		out |= (word >> i & 1) << b
		i++
	}
	return out
}
