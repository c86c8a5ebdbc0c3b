package partner

import (
	"crypto/subtle"

	partnerDatamodel "github.com/frahmantamala/partner-transaction/internal/core/datamodel/partner"
	"golang.org/x/crypto/bcrypt"
)

// Partner is a registered caller. Exactly one of secret or secretHash is
// set: configuration supplies plaintext secrets, the database stores bcrypt
// hashes.
type Partner struct {
	Key        string
	secret     []byte
	secretHash []byte
}

func NewPartner(key, secret string) Partner {
	return Partner{Key: key, secret: []byte(secret)}
}

func NewHashedPartner(key, secretHash string) Partner {
	return Partner{Key: key, secretHash: []byte(secretHash)}
}

// Matches reports whether candidate is this partner's shared secret.
func (p Partner) Matches(candidate []byte) bool {
	if len(p.secretHash) > 0 {
		return bcrypt.CompareHashAndPassword(p.secretHash, candidate) == nil
	}
	if len(p.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(p.secret, candidate) == 1
}

func FromDataModel(p *partnerDatamodel.Partner) Partner {
	return NewHashedPartner(p.PartnerKey, p.SecretHash)
}

// ToDataModel hashes secret with the given bcrypt cost.
func ToDataModel(key, secret string, cost int) (*partnerDatamodel.Partner, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, err
	}
	return &partnerDatamodel.Partner{
		PartnerKey: key,
		SecretHash: string(hash),
		IsActive:   true,
	}, nil
}
