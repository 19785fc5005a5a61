package enums

// InventoryLabel is the display text persisted in revendedor_estoque.status.
type InventoryLabel string

const (
	InventoryInStock    InventoryLabel = "Em estoque"
	InventoryLowStock   InventoryLabel = "Estoque baixo"
	InventoryOutOfStock InventoryLabel = "Sem estoque"
)

// LowStockThreshold is the highest quantity still classified as low stock.
const LowStockThreshold = 20

// String implements fmt.Stringer.
func (l InventoryLabel) String() string {
	return string(l)
}

// StockSeverity drives badge coloring for inventory rows.
type StockSeverity string

const (
	StockSeverityNormal   StockSeverity = "normal"
	StockSeverityWarning  StockSeverity = "warning"
	StockSeverityCritical StockSeverity = "critical"
)

// String implements fmt.Stringer.
func (s StockSeverity) String() string {
	return string(s)
}
