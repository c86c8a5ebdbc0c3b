package partner_test

import (
	"github.com/frahmantamala/partner-transaction/internal/partner"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("StaticRegistry", func() {
	var registry *partner.StaticRegistry

	BeforeEach(func() {
		registry = partner.NewStaticRegistry(map[string]string{
			"FAKEGOOGLE": "FAKEPASSWORD1234",
			"FAKEPEOPLE": "FAKEPASSWORD4578",
		})
	})

	It("looks partners up by exact key", func() {
		p, ok := registry.Lookup("FAKEGOOGLE")
		Expect(ok).To(BeTrue())
		Expect(p.Key).To(Equal("FAKEGOOGLE"))

		_, ok = registry.Lookup("fakegoogle")
		Expect(ok).To(BeFalse())

		_, ok = registry.Lookup("")
		Expect(ok).To(BeFalse())
	})

	It("lists keys in order", func() {
		Expect(registry.Len()).To(Equal(2))
		Expect(registry.Keys()).To(Equal([]string{"FAKEGOOGLE", "FAKEPEOPLE"}))
	})
})

var _ = Describe("Partner", func() {
	It("matches its plaintext secret exactly", func() {
		p := partner.NewPartner("FAKEGOOGLE", "FAKEPASSWORD1234")
		Expect(p.Matches([]byte("FAKEPASSWORD1234"))).To(BeTrue())
		Expect(p.Matches([]byte("FAKEPASSWORD123"))).To(BeFalse())
		Expect(p.Matches([]byte("fakepassword1234"))).To(BeFalse())
		Expect(p.Matches(nil)).To(BeFalse())
	})

	It("never matches when it has no secret", func() {
		Expect(partner.NewPartner("EMPTY", "").Matches([]byte(""))).To(BeFalse())
		Expect(partner.Partner{}.Matches(nil)).To(BeFalse())
	})

	It("matches against a bcrypt hash", func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("FAKEPASSWORD4578"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		p := partner.NewHashedPartner("FAKEPEOPLE", string(hash))
		Expect(p.Matches([]byte("FAKEPASSWORD4578"))).To(BeTrue())
		Expect(p.Matches([]byte("FAKEPASSWORD1234"))).To(BeFalse())
	})

	It("round-trips through the data model", func() {
		row, err := partner.ToDataModel("FAKEGOOGLE", "FAKEPASSWORD1234", bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		Expect(row.PartnerKey).To(Equal("FAKEGOOGLE"))

		p := partner.FromDataModel(row)
		Expect(p.Key).To(Equal("FAKEGOOGLE"))
		Expect(p.Matches([]byte("FAKEPASSWORD1234"))).To(BeTrue())
	})
})
