package partner

import "sort"

// Registry is the read-only partner lookup consulted on every submission.
//
//go:generate mockgen -destination=mocks/mock_registry.go -source=registry.go Registry
type Registry interface {
	Lookup(partnerKey string) (Partner, bool)
}

// StaticRegistry is an in-memory Registry. It is never mutated after
// construction and is safe for concurrent use.
type StaticRegistry struct {
	partners map[string]Partner
}

// NewStaticRegistry builds a registry from plaintext secrets keyed by partner key.
func NewStaticRegistry(secrets map[string]string) *StaticRegistry {
	partners := make(map[string]Partner, len(secrets))
	for key, secret := range secrets {
		partners[key] = NewPartner(key, secret)
	}
	return &StaticRegistry{partners: partners}
}

func newRegistryFromPartners(list []Partner) *StaticRegistry {
	partners := make(map[string]Partner, len(list))
	for _, p := range list {
		partners[p.Key] = p
	}
	return &StaticRegistry{partners: partners}
}

func (r *StaticRegistry) Lookup(partnerKey string) (Partner, bool) {
	p, ok := r.partners[partnerKey]
	return p, ok
}

func (r *StaticRegistry) Len() int {
	return len(r.partners)
}

func (r *StaticRegistry) Keys() []string {
	keys := make([]string, 0, len(r.partners))
	for k := range r.partners {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
