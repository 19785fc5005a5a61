package enums

// OutboxAggregateType names the table an outbox event's aggregate_id points at.
type OutboxAggregateType string

const (
	AggregateOrder         OutboxAggregateType = "pedido"
	AggregateInventoryItem OutboxAggregateType = "revendedor_estoque"
)

func (a OutboxAggregateType) IsValid() bool {
	switch a {
	case AggregateOrder, AggregateInventoryItem:
		return true
	}
	return false
}

// OutboxEventType is the event_type attribute subscribers filter on.
type OutboxEventType string

const (
	EventOrderAccepted      OutboxEventType = "order_accepted"
	EventOrderRejected      OutboxEventType = "order_rejected"
	EventOrderStatusChanged OutboxEventType = "order_status_changed"
	// EventStockDepleted fires when an accept takes an item to zero.
	EventStockDepleted OutboxEventType = "stock_depleted"
)

func (e OutboxEventType) IsValid() bool {
	switch e {
	case EventOrderAccepted, EventOrderRejected, EventOrderStatusChanged, EventStockDepleted:
		return true
	}
	return false
}
