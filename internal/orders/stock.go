package orders

import (
	"fmt"

	"github.com/revendedor/painel-backend/pkg/db/models"
)

// demand is the total quantity requested for one product across an order.
type demand struct {
	Product  string
	Quantity int
}

// productName falls back to the package id when the catalog row is gone.
func productName(item ItemRow) string {
	if item.Description != nil && *item.Description != "" {
		return *item.Description
	}
	return fmt.Sprintf("Produto ID %d", item.PackageID)
}

// aggregateDemand sums quantities per product, keeping first-appearance order.
func aggregateDemand(items []ItemRow) []demand {
	index := make(map[string]int, len(items))
	out := make([]demand, 0, len(items))
	for _, item := range items {
		name := productName(item)
		if pos, ok := index[name]; ok {
			out[pos].Quantity += item.Quantity
			continue
		}
		index[name] = len(out)
		out = append(out, demand{Product: name, Quantity: item.Quantity})
	}
	return out
}

// shortfall names every product with no stock row or too little stock.
func shortfall(demands []demand, stock map[string]models.InventoryItem) []string {
	missing := make([]string, 0)
	for _, d := range demands {
		row, ok := stock[d.Product]
		if !ok || row.Quantity < d.Quantity {
			missing = append(missing, d.Product)
		}
	}
	return missing
}

func productNames(demands []demand) []string {
	names := make([]string, 0, len(demands))
	for _, d := range demands {
		names = append(names, d.Product)
	}
	return names
}
