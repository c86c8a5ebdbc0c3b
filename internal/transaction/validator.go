package transaction

import (
	"encoding/base64"
	"math"
	"time"

	errors "github.com/frahmantamala/partner-transaction/internal"
	"github.com/frahmantamala/partner-transaction/internal/core/common/validation"
	"github.com/frahmantamala/partner-transaction/internal/partner"
)

// decodedPassword is the outcome of Base64-decoding partnerpassword.
type decodedPassword struct {
	value []byte
	err   error
}

func decodePassword(raw string) decodedPassword {
	value, err := base64.StdEncoding.DecodeString(raw)
	return decodedPassword{value: value, err: err}
}

// Validate runs every structural, authentication, freshness and consistency
// check against req and returns nil when it may proceed to signature
// verification. All checks run; the returned error lists every failure in
// check order. now must be the single clock reading taken for this request.
func Validate(req *TransactionRequest, registry partner.Registry, now time.Time) *errors.AppError {
	registered, known := registry.Lookup(req.PartnerKey)
	password := decodePassword(req.PartnerPassword)

	v := validation.NewValidator()

	v.Field("partnerkey", req.PartnerKey).Required()
	v.Field("partnerrefno", req.PartnerRefNo).Required()
	v.Field("partnerpassword", req.PartnerPassword).Required()
	v.Field("timestamp", req.Timestamp).Required()
	v.Field("sig", req.Sig).Required()

	v.Field("totalamount", req.TotalAmount).
		Positive(MsgInvalidTotalAmount, errors.ErrCodeInvalidAmount).
		AtMost(MaxTotalAmount, MsgInvalidTotalAmount, errors.ErrCodeInvalidAmount)

	v.Field("partnerkey", req.PartnerKey).Custom(func(interface{}) *errors.AppError {
		if !known {
			return validation.Fail("partnerkey", MsgAccessDenied, errors.ErrCodePartnerNotFound)
		}
		return nil
	})
	v.Field("partnerpassword", password).Custom(func(value interface{}) *errors.AppError {
		pw := value.(decodedPassword)
		if pw.err != nil {
			return validation.Fail("partnerpassword", MsgAccessDenied, errors.ErrCodeAccessDenied)
		}
		if known && !registered.Matches(pw.value) {
			return validation.Fail("partnerpassword", MsgAccessDenied, errors.ErrCodeAccessDenied)
		}
		return nil
	})

	v.Field("timestamp", req.Timestamp).Custom(func(value interface{}) *errors.AppError {
		ts, err := ParseTimestamp(value.(string))
		if err != nil {
			return validation.Fail("timestamp", MsgInvalidTimestamp, errors.ErrCodeInvalidTimestamp)
		}
		if absDuration(now.Sub(ts)) > FreshnessWindow {
			return validation.Fail("timestamp", MsgExpired, errors.ErrCodeExpired)
		}
		return nil
	})

	v.Field("items", req.Items).Custom(func(value interface{}) *errors.AppError {
		items := value.([]ItemDetail)
		if len(items) == 0 {
			return nil
		}
		sum, ok := ItemsTotal(items)
		if !ok || sum != req.TotalAmount {
			return validation.Fail("items", MsgInvalidTotalAmount, errors.ErrCodeInvalidAmount)
		}
		return nil
	})

	return v.Validate()
}

// ItemsTotal sums qty*unitPrice over items. ok is false when any product or
// the running sum leaves the int64 range.
func ItemsTotal(items []ItemDetail) (int64, bool) {
	var total int64
	for _, item := range items {
		line, ok := mulInt64(item.Qty, item.UnitPrice)
		if !ok {
			return 0, false
		}
		if total, ok = addInt64(total, line); !ok {
			return 0, false
		}
	}
	return total, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

func absDuration(d time.Duration) time.Duration {
	if d == math.MinInt64 {
		return math.MaxInt64
	}
	if d < 0 {
		return -d
	}
	return d
}
