package inspector

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/drammap/memconfig"
	"github.com/sarchlab/drammap/schemes"
)

var _ = Describe("Inspector", func() {
	var (
		cfg  memconfig.Config
		insp *Inspector
	)

	get := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		insp.router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		var err error
		cfg, err = memconfig.Derive(schemes.DDR4SingleRank())
		Expect(err).ToNot(HaveOccurred())

		table := memconfig.NewTable()
		Expect(table.Add(cfg)).To(Succeed())

		insp = NewInspector(table)
	})

	It("should list config summaries", func() {
		rec := get("/api/configs")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var summaries []configSummary
		Expect(json.Unmarshal(rec.Body.Bytes(), &summaries)).To(Succeed())
		Expect(summaries).To(HaveLen(1))
		Expect(summaries[0].Name).To(Equal("ddr4_single_rank"))
		Expect(summaries[0].Identifier).To(Equal(cfg.Identifier))
		Expect(summaries[0].Width).To(Equal(30))
	})

	It("should show one config with its matrices", func() {
		rec := get("/api/configs/0x01010110")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var got memconfig.Config
		Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
		Expect(got.Name).To(Equal(cfg.Name))
		Expect(got.DRAMMatrix.Equal(cfg.DRAMMatrix)).To(BeTrue())
		Expect(got.AddrMatrix.Equal(cfg.AddrMatrix)).To(BeTrue())
	})

	It("should report unknown identifiers", func() {
		rec := get("/api/configs/0x99")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject malformed identifiers", func() {
		rec := get("/api/configs/sixteen")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should map addresses", func() {
		rec := get("/api/map/0x01010110?addr=0x40")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp translationRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Addr).To(Equal(uint64(0x40)))
		Expect(rsp.Bank).To(Equal(uint64(0b1000)))
		Expect(rsp.Row).To(Equal(uint64(0)))
		Expect(rsp.Col).To(Equal(uint64(0)))
	})

	It("should reject malformed addresses", func() {
		rec := get("/api/map/0x01010110?addr=xyz")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should unmap coordinates back to the mapped address", func() {
		rec := get("/api/map/0x01010110?addr=0x2e85cafe")

		var mapped translationRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &mapped)).To(Succeed())

		rec = get(fmt.Sprintf("/api/unmap/0x01010110?bank=%d&row=%d&col=%d",
			mapped.Bank, mapped.Row, mapped.Col))

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp translationRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Addr).To(Equal(uint64(0x2e85cafe)))
	})

	It("should default missing coordinates to zero", func() {
		rec := get("/api/unmap/0x01010110")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp translationRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Addr).To(Equal(uint64(0)))
	})
})
