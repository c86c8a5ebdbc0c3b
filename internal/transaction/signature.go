package transaction

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"strconv"
	"strings"

	"github.com/frahmantamala/partner-transaction/pkg/logger"
)

// signatureTimeLayout is YYYYMMDDhhmmss, UTC, 24-hour clock.
const signatureTimeLayout = "20060102150405"

// Signer derives the digest partners put in "sig". The digest is
// Base64(SHA-256(canonical string)).
type Signer struct {
	logger *slog.Logger
}

func NewSigner(lg *slog.Logger) *Signer {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Signer{logger: lg}
}

// CanonicalString concatenates, without separators: the UTC timestamp as
// YYYYMMDDhhmmss, partnerkey, partnerrefno, totalamount in base 10 and
// partnerpassword exactly as transmitted (still Base64, not decoded).
func CanonicalString(req *TransactionRequest) (string, error) {
	ts, err := ParseTimestamp(req.Timestamp)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(ts.Format(signatureTimeLayout))
	b.WriteString(req.PartnerKey)
	b.WriteString(req.PartnerRefNo)
	b.WriteString(strconv.FormatInt(req.TotalAmount, 10))
	b.WriteString(req.PartnerPassword)
	return b.String(), nil
}

// Digest returns Base64(SHA-256(canonical)).
func Digest(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *Signer) Sign(req *TransactionRequest) (string, error) {
	canonical, err := CanonicalString(req)
	if err != nil {
		return "", err
	}

	digest := Digest(canonical)
	// the canonical string embeds partnerpassword, never log it
	s.logger.Debug("signature computed",
		"partner_key", req.PartnerKey,
		"partner_ref_no", req.PartnerRefNo,
		"digest", digest)
	return digest, nil
}

// Verify reports whether req.Sig equals the digest recomputed from req.
// An unparseable timestamp is reported as a plain mismatch.
func (s *Signer) Verify(req *TransactionRequest) bool {
	expected, err := s.Sign(req)
	if err != nil {
		s.logger.Debug("signature could not be computed",
			"partner_key", req.PartnerKey,
			"error", err)
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(req.Sig)) == 1
}
