package enums

import "strings"

// DeliveryKind selects the fulfillment branch an order follows.
type DeliveryKind string

const (
	DeliveryKindPickup   DeliveryKind = "retirada"
	DeliveryKindDelivery DeliveryKind = "entrega"
)

// String implements fmt.Stringer.
func (d DeliveryKind) String() string {
	return string(d)
}

// IsPickup reports whether the order is collected by the customer.
func (d DeliveryKind) IsPickup() bool {
	return d == DeliveryKindPickup
}

// DeliveryKindOf classifies pedidos.tipo_entrega; only "retirada" (any case)
// is a pickup, every other value is a delivery.
func DeliveryKindOf(tipoEntrega string) DeliveryKind {
	if strings.EqualFold(strings.TrimSpace(tipoEntrega), string(DeliveryKindPickup)) {
		return DeliveryKindPickup
	}
	return DeliveryKindDelivery
}
