package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a reseller's stock row (revendedor_estoque). Status holds
// an optional stored label that overrides the quantity-derived one.
type InventoryItem struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	ResellerID int64           `gorm:"column:revendedor_id;not null;uniqueIndex:idx_estoque_revendedor_pacote;uniqueIndex:idx_estoque_revendedor_produto"`
	PackageID  int64           `gorm:"column:pacote_id;not null;uniqueIndex:idx_estoque_revendedor_pacote"`
	Product    string          `gorm:"column:produto;not null;uniqueIndex:idx_estoque_revendedor_produto"`
	Quantity   int             `gorm:"column:quantidade;not null;default:0"`
	Status     *string         `gorm:"column:status"`
	Price      decimal.Decimal `gorm:"column:preco;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventoryItem) TableName() string { return "revendedor_estoque" }
