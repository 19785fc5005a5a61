package models

import "time"

// Customer links a platform user to a reseller's customer list (clientes).
type Customer struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	ResellerID int64     `gorm:"column:revendedor_id;not null;uniqueIndex:idx_clientes_revendedor_usuario"`
	UserID     int64     `gorm:"column:usuario_id;not null;uniqueIndex:idx_clientes_revendedor_usuario"`
	Name       string    `gorm:"column:nome;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "clientes" }
