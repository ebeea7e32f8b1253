package dramaddr

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/drammap/mapping"
	"github.com/sarchlab/drammap/memconfig"
	"github.com/sarchlab/drammap/schemes"
)

var _ = Describe("Translator", func() {
	var trans *Translator

	BeforeEach(func() {
		cfg, err := memconfig.Derive(schemes.DDR4SingleRank())
		Expect(err).NotTo(HaveOccurred())
		trans = NewTranslator(cfg)
	})

	It("should map bank-selecting address bits through their XOR", func() {
		// Address bit 6 feeds only the bank function over bits 6 and 13.
		Expect(trans.Map(1 << 6)).To(Equal(Addr{Bank: 0b1000}))
		// Address bit 17 feeds a bank function and row bit 0.
		Expect(trans.Map(1 << 17)).To(Equal(Addr{Bank: 0b0100, Row: 1}))
		Expect(trans.Map(1 << 0)).To(Equal(Addr{Col: 1}))
	})

	It("should round-trip addresses within the mapped range", func() {
		for _, addr := range []uint64{
			0, 1, 0x2040, 0x1234567, 0x3fffffff, 0x2e85cafe,
		} {
			Expect(trans.Unmap(trans.Map(addr))).To(Equal(addr))
		}
	})

	It("should ignore address bits above the mapped range", func() {
		Expect(trans.Map(0xffc0000000 | 0x123)).To(Equal(trans.Map(0x123)))
	})

	It("should anchor unmapped bits through the base", func() {
		trans.SetBase(0x7f0000beef)

		addr := uint64(0x7f00000000 | 0x1234)
		Expect(trans.Unmap(trans.Map(addr))).To(Equal(addr))
	})

	It("should round-trip schemes with gaps in their address bits", func() {
		s := mapping.MakeBuilder().
			WithName("sparse").
			WithNumBank(4).
			WithBankFunctions(
				mapping.Bit(6)|mapping.Bit(13),
				mapping.Bit(7)|mapping.Bit(14),
			).
			WithColumnFunction(mapping.BitRange(0, 5)).
			WithRowFunction(mapping.Bit(13) | mapping.Bit(14)).
			Build()

		cfg, err := memconfig.Derive(s)
		Expect(err).NotTo(HaveOccurred())
		sparse := NewTranslator(cfg)

		union := uint64(s.AddressBits())
		for i := uint64(0); i < 1024; i++ {
			addr := expand(i, union)
			Expect(sparse.Unmap(sparse.Map(addr))).To(Equal(addr))
		}
	})
})

var _ = Describe("Addr", func() {
	It("should move by coordinate increments", func() {
		a := Addr{Bank: 1, Row: 10, Col: 4}
		Expect(a.Add(0, 2, 0)).To(Equal(Addr{Bank: 1, Row: 12, Col: 4}))
		Expect(a.Add(3, 0, 1)).To(Equal(Addr{Bank: 4, Row: 10, Col: 5}))
	})

	It("should print the compact coordinate form", func() {
		Expect(Addr{Bank: 1, Row: 2, Col: 3}.String()).To(Equal("(1,2,3)"))
	})
})

var _ = Describe("FromTable", func() {
	It("should pick the configuration by identifier", func() {
		cfg, err := memconfig.Derive(schemes.DDR4SingleRank())
		Expect(err).NotTo(HaveOccurred())

		table := memconfig.NewTable()
		Expect(table.Add(cfg)).To(Succeed())

		trans, ok := FromTable(table, memconfig.EncodeIdentifier(1, 1, 1, 16))
		Expect(ok).To(BeTrue())
		Expect(trans.Config().Name).To(Equal("ddr4_single_rank"))

		_, ok = FromTable(table, memconfig.EncodeIdentifier(2, 1, 2, 16))
		Expect(ok).To(BeFalse())
	})
})
