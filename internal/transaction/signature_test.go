package transaction_test

import (
	"github.com/frahmantamala/partner-transaction/internal/transaction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Signer", func() {
	var (
		signer *transaction.Signer
		req    *transaction.TransactionRequest
	)

	BeforeEach(func() {
		signer = transaction.NewSigner(testLogger)
		req = &transaction.TransactionRequest{
			PartnerKey:      googleKey,
			PartnerRefNo:    "FG-00001",
			PartnerPassword: "RkFLRVBBU1NXT1JEMTIzNA==",
			TotalAmount:     1000,
			Timestamp:       "2024-08-15T02:11:22Z",
		}
	})

	Describe("CanonicalString", func() {
		It("concatenates the fields without separators", func() {
			canonical, err := transaction.CanonicalString(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(canonical).To(Equal("20240815021122FAKEGOOGLEFG-000011000RkFLRVBBU1NXT1JEMTIzNA=="))
		})

		It("normalizes the timestamp to UTC", func() {
			req.Timestamp = "2024-08-15T09:11:22+07:00"
			canonical, err := transaction.CanonicalString(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(canonical).To(HavePrefix("20240815021122"))
		})

		It("normalizes a compact offset to UTC", func() {
			req.Timestamp = "2024-08-15T09:11:22+0700"
			canonical, err := transaction.CanonicalString(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(canonical).To(HavePrefix("20240815021122"))
		})

		It("uses a 24-hour clock", func() {
			req.Timestamp = "2024-08-15T23:05:09Z"
			canonical, err := transaction.CanonicalString(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(canonical).To(HavePrefix("20240815230509"))
		})

		It("fails on an unparseable timestamp", func() {
			req.Timestamp = "yesterday"
			_, err := transaction.CanonicalString(req)
			Expect(err).To(MatchError(transaction.ErrInvalidTimestamp))
		})
	})

	Describe("Sign", func() {
		It("produces Base64 SHA-256 of the canonical string", func() {
			sig, err := signer.Sign(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(sig).To(Equal("AX4NiI06xU0O7fbmbina7ozFdFkj3cp13MmQyGG+ARM="))
		})

		It("is deterministic", func() {
			first, _ := signer.Sign(req)
			second, _ := signer.Sign(req)
			Expect(first).To(Equal(second))
		})
	})

	Describe("Verify", func() {
		BeforeEach(func() {
			req.Sig = "AX4NiI06xU0O7fbmbina7ozFdFkj3cp13MmQyGG+ARM="
		})

		It("accepts the matching signature", func() {
			Expect(signer.Verify(req)).To(BeTrue())
		})

		DescribeTable("rejects any change to a signed field",
			func(mutate func(*transaction.TransactionRequest)) {
				mutate(req)
				Expect(signer.Verify(req)).To(BeFalse())
			},
			Entry("partner key", func(r *transaction.TransactionRequest) { r.PartnerKey = peopleKey }),
			Entry("reference", func(r *transaction.TransactionRequest) { r.PartnerRefNo = "FG-00002" }),
			Entry("amount", func(r *transaction.TransactionRequest) { r.TotalAmount = 1001 }),
			Entry("password", func(r *transaction.TransactionRequest) { r.PartnerPassword = encode(peopleSecret) }),
			Entry("timestamp", func(r *transaction.TransactionRequest) { r.Timestamp = "2024-08-15T02:11:23Z" }),
			Entry("unparseable timestamp", func(r *transaction.TransactionRequest) { r.Timestamp = "garbage" }),
			Entry("signature case", func(r *transaction.TransactionRequest) { r.Sig = "ax4NiI06xU0O7fbmbina7ozFdFkj3cp13MmQyGG+ARM=" }),
			Entry("empty signature", func(r *transaction.TransactionRequest) { r.Sig = "" }),
		)

		It("ignores the item list", func() {
			req.Items = []transaction.ItemDetail{{PartnerItemRef: "i-1", Name: "Pen", Qty: 5, UnitPrice: 200}}
			Expect(signer.Verify(req)).To(BeTrue())
		})
	})
})
