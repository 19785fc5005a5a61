package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/revendedor/painel-backend/pkg/enums"
)

// Order is a customer purchase addressed to one reseller (pedidos).
type Order struct {
	ID                    int64                   `gorm:"column:id;primaryKey"`
	Number                string                  `gorm:"column:numero;not null"`
	CustomerUserID        int64                   `gorm:"column:cliente_id;not null;index"`
	ResellerID            int64                   `gorm:"column:revendedor_id;not null;index"`
	FreightFee            decimal.Decimal         `gorm:"column:frete;type:numeric(12,2);not null;default:0"`
	Total                 decimal.Decimal         `gorm:"column:valor_total;type:numeric(12,2);not null"`
	PaymentKind           string                  `gorm:"column:pagamento_tipo;not null;default:''"`
	DeliveryType          string                  `gorm:"column:tipo_entrega;not null;default:''"`
	PaymentStatus         enums.PaymentStatus     `gorm:"column:status;type:text;not null;default:'pendente'"`
	Status                enums.FulfillmentStatus `gorm:"column:status_detalhado;type:text;not null"`
	CreatedAt             time.Time               `gorm:"column:created_at;autoCreateTime"`
	EstimatedDeliveryDate *time.Time              `gorm:"column:data_estimada_entrega;type:date"`
	DeliveredAt           *time.Time              `gorm:"column:data_entrega_real"`
	ResellerNotes         *string                 `gorm:"column:observacoes_revendedor"`
	UpdatedAt             time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "pedidos" }

// DeliveryKind classifies tipo_entrega into the pickup or delivery branch.
func (o Order) DeliveryKind() enums.DeliveryKind {
	return enums.DeliveryKindOf(o.DeliveryType)
}

// OrderItem is one line of an order; UnitPrice is the price at order time.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	OrderID   int64           `gorm:"column:pedido_id;not null;index"`
	PackageID int64           `gorm:"column:pacote_id;not null"`
	Quantity  int             `gorm:"column:qtd;not null"`
	UnitPrice decimal.Decimal `gorm:"column:valor_unitario;type:numeric(12,2);not null"`
}

func (OrderItem) TableName() string { return "pedido_itens" }
