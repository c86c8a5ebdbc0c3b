package transaction

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	MaxDiscount = decimal.New(20, -2)

	primeBonus    = decimal.New(8, -2)
	hundredsBonus = decimal.New(10, -2)
)

const (
	primeBonusThreshold    = 50000
	hundredsBonusThreshold = 90000
)

type bracket struct {
	min, max int64
	rate     decimal.Decimal
}

// The gaps between brackets (50001-50099, 80001-80099) get no base
// discount.
var brackets = []bracket{
	{min: 20000, max: 50000, rate: decimal.New(5, -2)},
	{min: 50100, max: 80000, rate: decimal.New(7, -2)},
	{min: 80100, max: 120000, rate: decimal.New(10, -2)},
	{min: 120001, max: math.MaxInt64, rate: decimal.New(15, -2)},
}

// Quote is the priced outcome of an accepted submission.
type Quote struct {
	TotalAmount   int64
	Percentage    decimal.Decimal
	TotalDiscount decimal.Decimal
	FinalAmount   decimal.Decimal
}

func NewQuote(totalAmount int64) Quote {
	pct := DiscountPercentage(totalAmount)
	amount := decimal.NewFromInt(totalAmount)
	discount := amount.Mul(pct)

	return Quote{
		TotalAmount:   totalAmount,
		Percentage:    pct,
		TotalDiscount: discount,
		FinalAmount:   amount.Sub(discount),
	}
}

// DiscountPercentage is base + conditional, capped at MaxDiscount.
func DiscountPercentage(totalAmount int64) decimal.Decimal {
	total := BaseDiscount(totalAmount).Add(ConditionalDiscount(totalAmount))
	if total.GreaterThan(MaxDiscount) {
		return MaxDiscount
	}
	return total
}

func BaseDiscount(totalAmount int64) decimal.Decimal {
	for _, b := range brackets {
		if totalAmount >= b.min && totalAmount <= b.max {
			return b.rate
		}
	}
	return decimal.Zero
}

// ConditionalDiscount adds 8% for primes above 50000 and 10% for amounts
// above 90000 whose hundreds digit is 5. Both can apply.
func ConditionalDiscount(totalAmount int64) decimal.Decimal {
	bonus := decimal.Zero
	if totalAmount > primeBonusThreshold && IsPrime(totalAmount) {
		bonus = bonus.Add(primeBonus)
	}
	if totalAmount > hundredsBonusThreshold && (totalAmount/100)%10 == 5 {
		bonus = bonus.Add(hundredsBonus)
	}
	return bonus
}

// IsPrime is deterministic trial division up to the square root.
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := int64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
