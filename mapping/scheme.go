// Package mapping describes XOR-based DRAM interleaving schemes and
// derives the bit matrix that carries a physical address into DRAM
// coordinates. A scheme declares a controller topology and, per
// coordinate bit, the address-bit parity that produces it.
package mapping

import (
	"fmt"
	"math/bits"
)

// Scheme describes how a memory controller scatters physical addresses
// across channels, ranks, banks, rows, and columns. A Scheme is treated
// as immutable once built.
//
// BankFunctions carries one function per bank-address bit, rank selectors
// included, in the order the bits are packed into the bank field.
// ChannelFunctions does the same for channel-select bits, which ride in
// the low end of the bank field. RowFunction and ColumnFunction name the
// address bits mapped one-to-one onto the row and column fields.
type Scheme struct {
	Name string

	NumChannel uint64
	NumDIMM    uint64
	NumRank    uint64
	NumBank    uint64

	BankFunctions    []AddressFunction
	ChannelFunctions []AddressFunction
	RowFunction      AddressFunction
	ColumnFunction   AddressFunction
}

// SchemeMismatchError reports a scheme whose function list does not
// carry one function per address bit of the axis it selects.
type SchemeMismatchError struct {
	Scheme   string
	Axis     string
	Expected int
	Actual   int
}

func (e SchemeMismatchError) Error() string {
	return fmt.Sprintf(
		"scheme %s: %s functions do not match the topology, want %d, have %d",
		e.Scheme, e.Axis, e.Expected, e.Actual)
}

// TopologyError reports a device count that is not a power of two.
type TopologyError struct {
	Scheme string
	Axis   string
	Count  uint64
}

func (e TopologyError) Error() string {
	return fmt.Sprintf("scheme %s: %s count %d is not a power of two",
		e.Scheme, e.Axis, e.Count)
}

// Validate checks the declared topology against the address functions.
// It is pure and safe to call repeatedly. A power-of-two violation
// returns a TopologyError; a function count that does not match the bits
// the topology needs returns a SchemeMismatchError.
func (s Scheme) Validate() error {
	counts := []struct {
		axis string
		n    uint64
	}{
		{"channel", s.NumChannel},
		{"dimm", s.NumDIMM},
		{"rank", s.NumRank},
		{"bank", s.NumBank},
	}
	for _, c := range counts {
		if _, ok := log2(c.n); !ok {
			return TopologyError{Scheme: s.Name, Axis: c.axis, Count: c.n}
		}
	}

	rankBits, _ := log2(s.NumRank)
	bankBits, _ := log2(s.NumBank)
	if uint64(len(s.BankFunctions)) != rankBits+bankBits {
		return SchemeMismatchError{
			Scheme:   s.Name,
			Axis:     "bank",
			Expected: int(rankBits + bankBits),
			Actual:   len(s.BankFunctions),
		}
	}

	chanBits, _ := log2(s.NumChannel)
	if uint64(len(s.ChannelFunctions)) != chanBits {
		return SchemeMismatchError{
			Scheme:   s.Name,
			Axis:     "channel",
			Expected: int(chanBits),
			Actual:   len(s.ChannelFunctions),
		}
	}

	return nil
}

// Width returns the number of DRAM coordinate bits the scheme produces,
// which is also the dimension of its mapping matrix.
func (s Scheme) Width() int {
	return len(s.BankFunctions) + len(s.ChannelFunctions) +
		s.ColumnFunction.Count() + s.RowFunction.Count()
}

// AddressBits returns the union of the physical address bits the scheme
// references.
func (s Scheme) AddressBits() AddressFunction {
	u := s.RowFunction | s.ColumnFunction
	for _, f := range s.BankFunctions {
		u |= f
	}
	for _, f := range s.ChannelFunctions {
		u |= f
	}
	return u
}

// bankBlockFunctions lists the functions of the packed bank field, bank
// and rank selectors first, channel selectors last.
func (s Scheme) bankBlockFunctions() []AddressFunction {
	fns := make([]AddressFunction, 0,
		len(s.BankFunctions)+len(s.ChannelFunctions))
	fns = append(fns, s.BankFunctions...)
	fns = append(fns, s.ChannelFunctions...)
	return fns
}

func log2(n uint64) (uint64, bool) {
	if n == 0 || n&(n-1) != 0 {
		return 0, false
	}
	return uint64(bits.TrailingZeros64(n)), true
}
