package catalog

import (
	"fmt"
	"strings"

	"github.com/sarchlab/drammap/bitmatrix"
	"github.com/sarchlab/drammap/memconfig"
)

// TableName is the table Record writes configuration entries into.
const TableName = "configs"

// Entry is the flat projection of a configuration that recorders store.
// Matrix rows are rendered as hex words so that every column holds a
// plain value.
type Entry struct {
	Name       string
	Identifier uint64
	Width      uint64

	BankShift uint64
	BankMask  uint64
	RowShift  uint64
	RowMask   uint64
	ColShift  uint64
	ColMask   uint64
	AddrBits  uint64

	DRAMMatrix string
	AddrMatrix string
}

// NewEntry flattens a configuration into a recordable entry.
func NewEntry(c memconfig.Config) Entry {
	return Entry{
		Name:       c.Name,
		Identifier: c.Identifier,
		Width:      uint64(c.Width()),
		BankShift:  c.BankShift,
		BankMask:   c.BankMask,
		RowShift:   c.RowShift,
		RowMask:    c.RowMask,
		ColShift:   c.ColShift,
		ColMask:    c.ColMask,
		AddrBits:   c.AddrBits,
		DRAMMatrix: matrixString(c.DRAMMatrix),
		AddrMatrix: matrixString(c.AddrMatrix),
	}
}

func matrixString(m bitmatrix.Matrix) string {
	rows := m.Rows()

	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = fmt.Sprintf("%#x", row)
	}

	return strings.Join(parts, " ")
}
