package models

import "github.com/shopspring/decimal"

// Package is a catalog product definition (pacotes). Description doubles as
// the product identity used to match reseller stock.
type Package struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	Description string          `gorm:"column:descricao;not null"`
	Color       string          `gorm:"column:cor;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:preco;type:numeric(12,2);not null"`
	ImageURL    *string         `gorm:"column:imagem"`
}

func (Package) TableName() string { return "pacotes" }
