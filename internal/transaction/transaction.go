package transaction

import (
	stderrors "errors"
	"strings"
	"time"

	errors "github.com/frahmantamala/partner-transaction/internal"
)

// Caller-facing messages. Partners match on these strings, keep them stable.
const (
	MsgInvalidTotalAmount = "Invalid Total Amount."
	MsgAccessDenied       = "Access Denied!"
	MsgInvalidTimestamp   = "Invalid timestamp format."
	MsgExpired            = "Expired."
	MsgInvalidRequestBody = "Invalid request body."
	MsgInternalError      = "Internal server error."
)

// MaxTotalAmount bounds totalamount so primality testing stays cheap.
const MaxTotalAmount int64 = 1_000_000_000_000

// FreshnessWindow is the largest accepted distance, in either direction,
// between the request timestamp and the server clock.
const FreshnessWindow = 5 * time.Minute

var (
	ErrInvalidTimestamp  = stderrors.New("invalid timestamp")
	ErrSignatureMismatch = stderrors.New("signature mismatch")
)

// NewAccessDenied returns the caller-facing authentication failure. Each call
// yields a fresh value so callers may attach a cause without affecting others.
func NewAccessDenied(cause error) *errors.AppError {
	return errors.NewAccessDeniedError(MsgAccessDenied).WithCause(cause)
}

// Layouts without a zone are read as UTC. Input is upper-cased first so a
// lowercase "t" separator or "z" zone is accepted.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 style timestamp and returns it in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}
