package transaction_test

import (
	"math"
	"math/big"

	"github.com/frahmantamala/partner-transaction/internal/transaction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Discount", func() {
	DescribeTable("BaseDiscount brackets",
		func(total int64, expected string) {
			Expect(transaction.BaseDiscount(total).String()).To(Equal(expected))
		},
		Entry("below the first bracket", int64(19999), "0"),
		Entry("first bracket lower edge", int64(20000), "0.05"),
		Entry("first bracket upper edge", int64(50000), "0.05"),
		Entry("gap after the first bracket", int64(50001), "0"),
		Entry("gap upper edge", int64(50099), "0"),
		Entry("second bracket lower edge", int64(50100), "0.07"),
		Entry("second bracket upper edge", int64(80000), "0.07"),
		Entry("gap after the second bracket", int64(80050), "0"),
		Entry("third bracket lower edge", int64(80100), "0.1"),
		Entry("third bracket upper edge", int64(120000), "0.1"),
		Entry("top bracket lower edge", int64(120001), "0.15"),
		Entry("top bracket far end", int64(math.MaxInt64), "0.15"),
	)

	DescribeTable("ConditionalDiscount",
		func(total int64, expected string) {
			Expect(transaction.ConditionalDiscount(total).String()).To(Equal(expected))
		},
		Entry("prime at or below the threshold", int64(49999), "0"),
		Entry("threshold itself", int64(50000), "0"),
		Entry("prime above the threshold", int64(50101), "0.08"),
		Entry("composite above the threshold", int64(60000), "0"),
		Entry("hundreds digit 5 below 90000", int64(85500), "0"),
		Entry("hundreds digit 5 above 90000", int64(90500), "0.1"),
		Entry("hundreds digit 0 above 90000", int64(90000), "0"),
		Entry("hundreds digit 5 on a large amount", int64(120500), "0.1"),
	)

	DescribeTable("NewQuote",
		func(total int64, pct, discount, final string) {
			q := transaction.NewQuote(total)
			Expect(q.TotalAmount).To(Equal(total))
			Expect(q.Percentage.String()).To(Equal(pct))
			Expect(q.TotalDiscount.String()).To(Equal(discount))
			Expect(q.FinalAmount.String()).To(Equal(final))
			Expect(q.TotalDiscount.Add(q.FinalAmount).IntPart()).To(Equal(total))
		},
		Entry("no discount", int64(10000), "0", "0", "10000"),
		Entry("bracket only", int64(60000), "0.07", "4200", "55800"),
		Entry("bracket plus prime", int64(50101), "0.15", "7515.15", "42585.85"),
		Entry("bracket plus hundreds digit at the cap", int64(95500), "0.2", "19100", "76400"),
		Entry("capped", int64(120500), "0.2", "24100", "96400"),
		Entry("gap amount", int64(50001), "0", "0", "50001"),
	)

	It("never exceeds the cap", func() {
		for _, total := range []int64{20000, 50101, 90500, 95500, 120500, 1000500, math.MaxInt64} {
			Expect(transaction.DiscountPercentage(total).GreaterThan(transaction.MaxDiscount)).To(BeFalse())
		}
	})

	Describe("IsPrime", func() {
		It("agrees with math/big on small numbers", func() {
			for n := int64(-10); n <= 20000; n++ {
				expected := n > 1 && big.NewInt(n).ProbablyPrime(20)
				Expect(transaction.IsPrime(n)).To(Equal(expected), "n=%d", n)
			}
		})

		DescribeTable("larger values",
			func(n int64, expected bool) {
				Expect(transaction.IsPrime(n)).To(Equal(expected))
			},
			Entry("2^31-1", int64(2147483647), true),
			Entry("1e9+7", int64(1000000007), true),
			Entry("999999937", int64(999999937), true),
			Entry("3 * (1e9+7)", int64(3000000021), false),
			Entry("square of a prime", int64(49999*49999), false),
		)
	})
})
