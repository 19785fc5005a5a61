package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/revendedor/painel-backend/pkg/enums"
)

const dateLayout = "2006-01-02"

// Actor is the signed-in user and the reseller account it operates.
type Actor struct {
	UserID     int64
	ResellerID int64
}

func (a Actor) valid() bool {
	return a.UserID > 0 && a.ResellerID > 0
}

// AcceptInput accepts a pending order. EstimatedDate is a calendar date; only
// its year, month and day are kept.
type AcceptInput struct {
	Actor         Actor
	OrderID       int64
	EstimatedDate time.Time
}

// RejectInput cancels a pending order. A blank reason stores the default note.
type RejectInput struct {
	Actor   Actor
	OrderID int64
	Reason  string
}

// AdvanceInput moves an accepted order along its fulfillment path.
type AdvanceInput struct {
	Actor   Actor
	OrderID int64
	Target  enums.FulfillmentStatus
}

// ListParams selects one page of an order view.
type ListParams struct {
	ResellerID int64
	View       enums.OrderView
	Cursor     string
	Limit      int
}

// StockCheck reports whether current stock covers every line of an order.
type StockCheck struct {
	OrderID      int64    `json:"order_id"`
	Fulfillable  bool     `json:"fulfillable"`
	Insufficient []string `json:"insufficient_items"`
}

// AcceptResult summarizes an accepted order for the caller's confirmation.
type AcceptResult struct {
	OrderID               int64                   `json:"order_id"`
	Number                string                  `json:"number"`
	Status                enums.FulfillmentStatus `json:"status"`
	StatusLabel           string                  `json:"status_label"`
	EstimatedDeliveryDate string                  `json:"estimated_delivery_date"`
	Message               string                  `json:"message"`
}

// ItemRow is a line item joined with its catalog description.
type ItemRow struct {
	ID          int64           `gorm:"column:id"`
	OrderID     int64           `gorm:"column:pedido_id"`
	PackageID   int64           `gorm:"column:pacote_id"`
	Quantity    int             `gorm:"column:qtd"`
	UnitPrice   decimal.Decimal `gorm:"column:valor_unitario"`
	Description *string         `gorm:"column:descricao"`
}

// OrderItemDTO is one order line as shown to the reseller.
type OrderItemDTO struct {
	ID        int64           `json:"id"`
	PackageID int64           `json:"package_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderSummary is an order row in any of the list views.
type OrderSummary struct {
	ID                    int64                   `json:"id"`
	Number                string                  `json:"number"`
	CustomerID            int64                   `json:"customer_id"`
	CustomerName          string                  `json:"customer_name"`
	DeliveryType          string                  `json:"delivery_type"`
	DeliveryKind          enums.DeliveryKind      `json:"delivery_kind"`
	Status                enums.FulfillmentStatus `json:"status"`
	StatusLabel           string                  `json:"status_label"`
	PaymentStatus         enums.PaymentStatus     `json:"payment_status"`
	PaymentKind           string                  `json:"payment_kind"`
	FreightFee            decimal.Decimal         `json:"freight_fee"`
	Total                 decimal.Decimal         `json:"total"`
	CreatedAt             time.Time               `json:"created_at"`
	EstimatedDeliveryDate *string                 `json:"estimated_delivery_date,omitempty"`
	DeliveredAt           *time.Time              `json:"delivered_at,omitempty"`
	ResellerNotes         *string                 `json:"reseller_notes,omitempty"`
	Items                 []OrderItemDTO          `json:"items"`
}

// Transition is a target state offered to the reseller.
type Transition struct {
	Status enums.FulfillmentStatus `json:"status"`
	Label  string                  `json:"label"`
}

// OrderDetail adds the transitions the reseller may take next.
type OrderDetail struct {
	OrderSummary
	AvailableTransitions []Transition `json:"available_transitions"`
}

// OrderAcceptedEvent is published when a reseller accepts an order.
type OrderAcceptedEvent struct {
	OrderID               int64                   `json:"order_id"`
	Number                string                  `json:"number"`
	ResellerID            int64                   `json:"reseller_id"`
	CustomerUserID        int64                   `json:"customer_user_id"`
	Status                enums.FulfillmentStatus `json:"status"`
	EstimatedDeliveryDate string                  `json:"estimated_delivery_date"`
	Items                 []StockMovement         `json:"items"`
}

// StockMovement records how much of a product an acceptance consumed.
type StockMovement struct {
	InventoryItemID int64  `json:"inventory_item_id"`
	Product         string `json:"product"`
	Quantity        int    `json:"quantity"`
	Remaining       int    `json:"remaining"`
}

// OrderRejectedEvent is published when a reseller turns an order down.
type OrderRejectedEvent struct {
	OrderID        int64  `json:"order_id"`
	Number         string `json:"number"`
	ResellerID     int64  `json:"reseller_id"`
	CustomerUserID int64  `json:"customer_user_id"`
	Reason         string `json:"reason"`
}

// OrderStatusChangedEvent is published for every post-acceptance transition.
type OrderStatusChangedEvent struct {
	OrderID        int64                   `json:"order_id"`
	Number         string                  `json:"number"`
	ResellerID     int64                   `json:"reseller_id"`
	CustomerUserID int64                   `json:"customer_user_id"`
	From           enums.FulfillmentStatus `json:"from"`
	To             enums.FulfillmentStatus `json:"to"`
	DeliveredAt    *time.Time              `json:"delivered_at,omitempty"`
}

// StockDepletedEvent flags a product that an acceptance emptied.
type StockDepletedEvent struct {
	InventoryItemID int64  `json:"inventory_item_id"`
	ResellerID      int64  `json:"reseller_id"`
	Product         string `json:"product"`
	Quantity        int    `json:"quantity"`
	OrderID         int64  `json:"order_id"`
}
