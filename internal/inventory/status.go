package inventory

import (
	"strings"

	"github.com/revendedor/painel-backend/pkg/enums"
)

// StockStatus is either a label stored on the row or one derived from the
// quantity. Build it with StatusOf.
type StockStatus interface {
	Resolve() (string, enums.StockSeverity)
	isStockStatus()
}

// Stored is an explicit label persisted in revendedor_estoque.status.
type Stored struct {
	Label string
}

// Derived classifies a bare quantity.
type Derived struct {
	Quantity int
}

func (Stored) isStockStatus()  {}
func (Derived) isStockStatus() {}

// Resolve returns the label verbatim; severity comes from its wording.
func (s Stored) Resolve() (string, enums.StockSeverity) {
	lower := strings.ToLower(s.Label)
	switch {
	case strings.Contains(lower, "sem"):
		return s.Label, enums.StockSeverityCritical
	case strings.Contains(lower, "baixo"):
		return s.Label, enums.StockSeverityWarning
	default:
		return s.Label, enums.StockSeverityNormal
	}
}

func (d Derived) Resolve() (string, enums.StockSeverity) {
	label := DeriveLabel(d.Quantity)
	return label.String(), severityOf(label)
}

// StatusOf prefers a non-blank stored label over the quantity.
func StatusOf(label *string, quantity int) StockStatus {
	if label != nil {
		if trimmed := strings.TrimSpace(*label); trimmed != "" {
			return Stored{Label: *label}
		}
	}
	return Derived{Quantity: quantity}
}

// DeriveLabel maps a quantity onto the stock thresholds.
func DeriveLabel(quantity int) enums.InventoryLabel {
	switch {
	case quantity <= 0:
		return enums.InventoryOutOfStock
	case quantity <= enums.LowStockThreshold:
		return enums.InventoryLowStock
	default:
		return enums.InventoryInStock
	}
}

func severityOf(label enums.InventoryLabel) enums.StockSeverity {
	switch label {
	case enums.InventoryOutOfStock:
		return enums.StockSeverityCritical
	case enums.InventoryLowStock:
		return enums.StockSeverityWarning
	default:
		return enums.StockSeverityNormal
	}
}
