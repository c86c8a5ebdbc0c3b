package partner

import "time"

type Partner struct {
	ID         int64     `gorm:"primaryKey"`
	PartnerKey string    `gorm:"column:partner_key;uniqueIndex;not null"`
	SecretHash string    `gorm:"column:secret_hash;not null"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Partner) TableName() string {
	return "partners"
}
