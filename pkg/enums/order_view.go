package enums

import (
	"fmt"
	"strings"
)

// OrderView selects one of the reseller's order lists.
type OrderView string

const (
	OrderViewPending    OrderView = "pending"
	OrderViewInProgress OrderView = "in_progress"
	OrderViewFinished   OrderView = "finished"
	OrderViewCancelled  OrderView = "cancelled"
)

var validOrderViews = []OrderView{
	OrderViewPending,
	OrderViewInProgress,
	OrderViewFinished,
	OrderViewCancelled,
}

// String implements fmt.Stringer.
func (v OrderView) String() string {
	return string(v)
}

// IsValid reports whether the value is a known OrderView.
func (v OrderView) IsValid() bool {
	for _, candidate := range validOrderViews {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseOrderView converts raw input into an OrderView; blank means pending.
func ParseOrderView(value string) (OrderView, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return OrderViewPending, nil
	}
	for _, candidate := range validOrderViews {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order view %q", value)
}
