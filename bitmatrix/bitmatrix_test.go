package bitmatrix

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Matrix", func() {
	// Stored rows [1100, 0110, 0011, 0001] chain neighboring bits:
	// y3=x3^x2, y2=x2^x1, y1=x1^x0, y0=x0. Solving back gives the
	// all-prefix XOR matrix used as the expected inverse below.
	var (
		toy    Matrix
		toyInv Matrix
	)

	BeforeEach(func() {
		toy = New([]uint64{0b1100, 0b0110, 0b0011, 0b0001})
		toyInv = New([]uint64{0b1111, 0b0111, 0b0011, 0b0001})
	})

	Describe("New", func() {
		It("should reject an empty matrix", func() {
			Expect(func() { New(nil) }).To(Panic())
		})

		It("should reject rows selecting bits beyond the width", func() {
			Expect(func() { New([]uint64{0b100, 0b001}) }).To(Panic())
		})

		It("should copy the row slice", func() {
			rows := []uint64{0b10, 0b01}
			m := New(rows)
			rows[0] = 0b11
			Expect(m.Row(0)).To(Equal(uint64(0b10)))
		})
	})

	Describe("Apply", func() {
		It("should leave inputs unchanged under the identity", func() {
			id := Identity(6)
			for x := uint64(0); x < 64; x++ {
				Expect(id.Apply(x)).To(Equal(x))
			}
		})

		It("should form each output bit as the parity of the row's bits", func() {
			Expect(toy.Apply(0b1000)).To(Equal(uint64(0b1000)))
			Expect(toy.Apply(0b0001)).To(Equal(uint64(0b0011)))
			Expect(toy.Apply(0b1111)).To(Equal(uint64(0b0001)))
		})

		It("should ignore input bits beyond the width", func() {
			Expect(toy.Apply(0b110100)).To(Equal(toy.Apply(0b0100)))
		})
	})

	Describe("Mul", func() {
		It("should compose the two mappings", func() {
			a := New([]uint64{0b1010, 0b0111, 0b0010, 0b1001})
			for x := uint64(0); x < 16; x++ {
				Expect(a.Mul(toy).Apply(x)).To(Equal(a.Apply(toy.Apply(x))))
				Expect(toy.Mul(a).Apply(x)).To(Equal(toy.Apply(a.Apply(x))))
			}
		})

		It("should treat the identity as neutral on both sides", func() {
			id := Identity(4)
			Expect(toy.Mul(id).Equal(toy)).To(BeTrue())
			Expect(id.Mul(toy).Equal(toy)).To(BeTrue())
		})

		It("should reject mismatched widths", func() {
			Expect(func() { toy.Mul(Identity(5)) }).To(Panic())
		})
	})

	Describe("Inverse", func() {
		It("should match the externally computed inverse of the toy matrix", func() {
			inv, err := toy.Inverse()

			Expect(err).NotTo(HaveOccurred())
			Expect(inv.Equal(toyInv)).To(BeTrue())
		})

		It("should compose with the original to the identity", func() {
			inv, err := toy.Inverse()

			Expect(err).NotTo(HaveOccurred())
			Expect(toy.Mul(inv).Equal(Identity(4))).To(BeTrue())
			Expect(inv.Mul(toy).Equal(Identity(4))).To(BeTrue())
		})

		It("should round-trip every input of a wider matrix", func() {
			rows := make([]uint64, 8)
			for i := range rows {
				rows[i] = (uint64(1) << (8 - i)) - 1
			}
			m := New(rows)

			inv, err := m.Inverse()

			Expect(err).NotTo(HaveOccurred())
			for x := uint64(0); x < 256; x++ {
				Expect(inv.Apply(m.Apply(x))).To(Equal(x))
			}
		})

		It("should invert the identity to itself", func() {
			inv, err := Identity(30).Inverse()

			Expect(err).NotTo(HaveOccurred())
			Expect(inv.Equal(Identity(30))).To(BeTrue())
		})

		It("should report duplicated rows as singular", func() {
			m := New([]uint64{0b1100, 0b1100, 0b0011, 0b0001})

			_, err := m.Inverse()

			var singular SingularMatrixError
			Expect(errors.As(err, &singular)).To(BeTrue())
			Expect(singular.Width).To(Equal(4))
		})
	})

	Describe("Equal", func() {
		It("should distinguish widths and rows", func() {
			Expect(toy.Equal(Identity(4))).To(BeFalse())
			Expect(toy.Equal(Identity(5))).To(BeFalse())
			Expect(toy.Equal(New(toy.Rows()))).To(BeTrue())
		})
	})

	Describe("String", func() {
		It("should render one binary line per row", func() {
			Expect(New([]uint64{0b10, 0b01}).String()).To(Equal("10\n01"))
		})
	})
})
