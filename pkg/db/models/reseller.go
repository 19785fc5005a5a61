package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reseller is the account operating the dashboard (revendedores).
type Reseller struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	UserID     int64           `gorm:"column:usuario_id;not null;uniqueIndex:idx_revendedores_usuario"`
	StoreName  string          `gorm:"column:nome_loja;not null;default:''"`
	FreightFee decimal.Decimal `gorm:"column:frete;type:numeric(12,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reseller) TableName() string { return "revendedores" }
