package postgres

import (
	"context"
	"errors"

	partnerDatamodel "github.com/frahmantamala/partner-transaction/internal/core/datamodel/partner"
	"github.com/frahmantamala/partner-transaction/internal/partner"
	"gorm.io/gorm"
)

type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) partner.RepositoryAPI {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) GetActive(ctx context.Context) ([]*partnerDatamodel.Partner, error) {
	var partners []*partnerDatamodel.Partner
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("partner_key ASC").Find(&partners).Error
	return partners, err
}

func (r *PartnerRepository) GetByKey(ctx context.Context, partnerKey string) (*partnerDatamodel.Partner, error) {
	var p partnerDatamodel.Partner
	err := r.db.WithContext(ctx).Where("partner_key = ?", partnerKey).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PartnerRepository) Create(ctx context.Context, p *partnerDatamodel.Partner) error {
	return r.db.WithContext(ctx).Create(p).Error
}
