package partner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	partnerDatamodel "github.com/frahmantamala/partner-transaction/internal/core/datamodel/partner"
)

type RepositoryAPI interface {
	GetActive(ctx context.Context) ([]*partnerDatamodel.Partner, error)
	GetByKey(ctx context.Context, partnerKey string) (*partnerDatamodel.Partner, error)
	Create(ctx context.Context, p *partnerDatamodel.Partner) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// LoadRegistry snapshots the active partners into a StaticRegistry. Later
// changes to the table are not observed by the returned registry.
func (s *Service) LoadRegistry(ctx context.Context) (*StaticRegistry, error) {
	rows, err := s.repo.GetActive(ctx)
	if err != nil {
		s.logger.Error("failed to load partners from repository", "error", err)
		return nil, fmt.Errorf("failed to load partners: %w", err)
	}

	partners := make([]Partner, 0, len(rows))
	for _, row := range rows {
		partners = append(partners, FromDataModel(row))
	}

	registry := newRegistryFromPartners(partners)
	s.logger.Info("partner registry loaded", "count", registry.Len())
	return registry, nil
}

// Seed inserts the given partners, skipping keys that already exist. It
// returns the keys that were inserted.
func (s *Service) Seed(ctx context.Context, secrets map[string]string, bcryptCost int) ([]string, error) {
	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var inserted []string
	for _, key := range keys {
		existing, err := s.repo.GetByKey(ctx, key)
		if err != nil {
			return inserted, fmt.Errorf("failed to look up partner %s: %w", key, err)
		}
		if existing != nil {
			s.logger.Info("partner already exists, skipping", "partner_key", key)
			continue
		}

		row, err := ToDataModel(key, secrets[key], bcryptCost)
		if err != nil {
			return inserted, fmt.Errorf("failed to hash secret for partner %s: %w", key, err)
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return inserted, fmt.Errorf("failed to insert partner %s: %w", key, err)
		}

		s.logger.Info("partner seeded", "partner_key", key, "partner_id", row.ID)
		inserted = append(inserted, key)
	}

	return inserted, nil
}
