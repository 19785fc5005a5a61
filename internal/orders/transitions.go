package orders

import "github.com/revendedor/painel-backend/pkg/enums"

var deliveryTargets = []enums.FulfillmentStatus{
	enums.FulfillmentInTransit,
	enums.FulfillmentDelivered,
	enums.FulfillmentCancelled,
}

// NextStatuses lists the states a reseller may move an accepted order to.
// Pending orders go through accept or reject instead, and terminal orders
// never move again. Delivery orders may jump to any delivery target from any
// other live state.
func NextStatuses(kind enums.DeliveryKind, current enums.FulfillmentStatus) []enums.FulfillmentStatus {
	if current.IsPending() || current.IsTerminal() {
		return nil
	}
	if kind.IsPickup() {
		switch current {
		case enums.FulfillmentPreparing:
			return []enums.FulfillmentStatus{enums.FulfillmentReadyForPickup}
		case enums.FulfillmentReadyForPickup:
			return []enums.FulfillmentStatus{enums.FulfillmentPickedUp}
		default:
			return nil
		}
	}
	next := make([]enums.FulfillmentStatus, 0, len(deliveryTargets))
	for _, target := range deliveryTargets {
		if target != current {
			next = append(next, target)
		}
	}
	return next
}

// AcceptedStatus is where an accepted order lands for its delivery kind.
func AcceptedStatus(kind enums.DeliveryKind) enums.FulfillmentStatus {
	if kind.IsPickup() {
		return enums.FulfillmentPreparing
	}
	return enums.FulfillmentAccepted
}

func canMoveTo(kind enums.DeliveryKind, current, target enums.FulfillmentStatus) bool {
	for _, candidate := range NextStatuses(kind, current) {
		if candidate == target {
			return true
		}
	}
	return false
}
