package mapping

// A Builder can build mapping schemes.
type Builder struct {
	name       string
	numChannel uint64
	numDIMM    uint64
	numRank    uint64
	numBank    uint64
	bankFns    []AddressFunction
	chanFns    []AddressFunction
	rowFn      AddressFunction
	colFn      AddressFunction
}

// MakeBuilder returns a Builder with a single-channel, single-DIMM,
// single-rank, single-bank topology and no address functions.
func MakeBuilder() Builder {
	return Builder{
		name:       "scheme",
		numChannel: 1,
		numDIMM:    1,
		numRank:    1,
		numBank:    1,
	}
}

// WithName sets the scheme name.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithNumChannel sets the number of channels.
func (b Builder) WithNumChannel(n uint64) Builder {
	b.numChannel = n
	return b
}

// WithNumDIMM sets the number of DIMMs per channel.
func (b Builder) WithNumDIMM(n uint64) Builder {
	b.numDIMM = n
	return b
}

// WithNumRank sets the number of ranks per DIMM.
func (b Builder) WithNumRank(n uint64) Builder {
	b.numRank = n
	return b
}

// WithNumBank sets the number of banks per rank.
func (b Builder) WithNumBank(n uint64) Builder {
	b.numBank = n
	return b
}

// WithBankFunctions sets the bank-bit functions, replacing any earlier
// list. Order fixes the packing of the bank field.
func (b Builder) WithBankFunctions(fns ...AddressFunction) Builder {
	b.bankFns = fns
	return b
}

// WithChannelFunctions sets the channel-bit functions, replacing any
// earlier list.
func (b Builder) WithChannelFunctions(fns ...AddressFunction) Builder {
	b.chanFns = fns
	return b
}

// WithRowFunction sets the mask of address bits mapped onto the row
// field.
func (b Builder) WithRowFunction(f AddressFunction) Builder {
	b.rowFn = f
	return b
}

// WithColumnFunction sets the mask of address bits mapped onto the
// column field.
func (b Builder) WithColumnFunction(f AddressFunction) Builder {
	b.colFn = f
	return b
}

// Build assembles the scheme. The function lists are copied so the
// returned Scheme does not alias the builder.
func (b Builder) Build() Scheme {
	s := Scheme{
		Name:           b.name,
		NumChannel:     b.numChannel,
		NumDIMM:        b.numDIMM,
		NumRank:        b.numRank,
		NumBank:        b.numBank,
		RowFunction:    b.rowFn,
		ColumnFunction: b.colFn,
	}
	s.BankFunctions = append([]AddressFunction{}, b.bankFns...)
	s.ChannelFunctions = append([]AddressFunction{}, b.chanFns...)
	return s
}
