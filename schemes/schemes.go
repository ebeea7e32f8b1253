// Package schemes ships ready-made interleaving schemes: the gem5 memory
// controller interleavings and a measured DDR4 DIMM mapping with XOR
// bank selection. Each function returns an independent, fully specified
// scheme value.
package schemes

import (
	"github.com/sarchlab/drammap/mapping"
)

// Axis identifies what a layout field selects.
type Axis int

const (
	Column Axis = iota
	Row
	Bank
	Rank
	Channel
)

// Field is a run of consecutive address bits feeding one axis.
type Field struct {
	Axis Axis
	Bits int
}

// Compose builds a scheme from a gapless low-to-high stack of fields.
// Column and row fields merge into the respective masks, so a split
// column layout is expressed as two Column fields. Bank, rank, and
// channel fields become one single-bit function per address bit; the
// bank block packs bank bits first and rank bits after them, the way
// measured function lists are written. Device counts follow from the
// field sizes, with a single DIMM assumed.
func Compose(name string, fields ...Field) mapping.Scheme {
	var (
		pos      int
		bankBits []int
		rankBits []int
		chanBits []int
		rowMask  mapping.AddressFunction
		colMask  mapping.AddressFunction
	)

	for _, f := range fields {
		for b := pos; b < pos+f.Bits; b++ {
			switch f.Axis {
			case Column:
				colMask |= mapping.Bit(b)
			case Row:
				rowMask |= mapping.Bit(b)
			case Bank:
				bankBits = append(bankBits, b)
			case Rank:
				rankBits = append(rankBits, b)
			case Channel:
				chanBits = append(chanBits, b)
			}
		}
		pos += f.Bits
	}

	bankFns := make([]mapping.AddressFunction, 0,
		len(bankBits)+len(rankBits))
	for _, b := range bankBits {
		bankFns = append(bankFns, mapping.Bit(b))
	}
	for _, b := range rankBits {
		bankFns = append(bankFns, mapping.Bit(b))
	}

	chanFns := make([]mapping.AddressFunction, 0, len(chanBits))
	for _, b := range chanBits {
		chanFns = append(chanFns, mapping.Bit(b))
	}

	return mapping.MakeBuilder().
		WithName(name).
		WithNumChannel(uint64(1) << len(chanBits)).
		WithNumDIMM(1).
		WithNumRank(uint64(1) << len(rankBits)).
		WithNumBank(uint64(1) << len(bankBits)).
		WithBankFunctions(bankFns...).
		WithChannelFunctions(chanFns...).
		WithRowFunction(rowMask).
		WithColumnFunction(colMask).
		Build()
}

// Gem5RoCoRaBaCh returns gem5's RoCoRaBaCh interleaving for a
// two-channel, dual-rank, 16-bank system. The channel bit and the lower
// column bits sit below the bank block, the upper column bits above it.
func Gem5RoCoRaBaCh() mapping.Scheme {
	return Compose("RoCoRaBaCh",
		Field{Column, 6},
		Field{Channel, 1},
		Field{Bank, 4},
		Field{Rank, 1},
		Field{Column, 6},
		Field{Row, 12},
	)
}

// Gem5RoRaBaCoCh returns gem5's RoRaBaCoCh interleaving. Both column
// halves stay below the bank block, split only by the channel bit.
func Gem5RoRaBaCoCh() mapping.Scheme {
	return Compose("RoRaBaCoCh",
		Field{Column, 6},
		Field{Channel, 1},
		Field{Column, 6},
		Field{Bank, 4},
		Field{Rank, 1},
		Field{Row, 12},
	)
}

// Gem5RoRaBaChCo returns gem5's RoRaBaChCo interleaving, where the
// column field is contiguous and the channel bit sits directly above it.
func Gem5RoRaBaChCo() mapping.Scheme {
	return Compose("RoRaBaChCo",
		Field{Column, 12},
		Field{Channel, 1},
		Field{Bank, 4},
		Field{Rank, 1},
		Field{Row, 12},
	)
}

// DDR4SingleRank returns the measured mapping of a single-rank, 16-bank
// DDR4 DIMM. Bank selection XORs pairs of address bits, the column skips
// address bit 6, and rows occupy the top of the 30-bit range.
func DDR4SingleRank() mapping.Scheme {
	return mapping.MakeBuilder().
		WithName("ddr4_single_rank").
		WithNumBank(16).
		WithBankFunctions(
			mapping.Bit(6)|mapping.Bit(13),
			mapping.Bit(14)|mapping.Bit(17),
			mapping.Bit(15)|mapping.Bit(18),
			mapping.Bit(16)|mapping.Bit(19),
		).
		WithColumnFunction(mapping.BitRange(0, 5)|mapping.BitRange(7, 13)).
		WithRowFunction(mapping.BitRange(17, 29)).
		Build()
}

// All returns the built-in schemes in a stable order.
func All() []mapping.Scheme {
	return []mapping.Scheme{
		DDR4SingleRank(),
		Gem5RoCoRaBaCh(),
		Gem5RoRaBaCoCh(),
		Gem5RoRaBaChCo(),
	}
}
