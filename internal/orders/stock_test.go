package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revendedor/painel-backend/pkg/db/models"
)

func strPtr(v string) *string { return &v }

func TestProductNameFallsBackToPackageID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Esfera X", productName(ItemRow{PackageID: 7, Description: strPtr("Esfera X")}))
	assert.Equal(t, "Produto ID 7", productName(ItemRow{PackageID: 7}))
	assert.Equal(t, "Produto ID 9", productName(ItemRow{PackageID: 9, Description: strPtr("")}))
}

func TestAggregateDemandSumsPerProduct(t *testing.T) {
	t.Parallel()

	demands := aggregateDemand([]ItemRow{
		{PackageID: 1, Description: strPtr("Cubo"), Quantity: 2},
		{PackageID: 2, Description: strPtr("Esfera X"), Quantity: 5},
		{PackageID: 1, Description: strPtr("Cubo"), Quantity: 3},
	})
	assert.Equal(t, []demand{{Product: "Cubo", Quantity: 5}, {Product: "Esfera X", Quantity: 5}}, demands)
}

func TestShortfallMatchesInsufficientSet(t *testing.T) {
	t.Parallel()

	demands := []demand{
		{Product: "Esfera X", Quantity: 5},
		{Product: "Cubo", Quantity: 2},
		{Product: "Piramide", Quantity: 1},
		{Product: "Cone", Quantity: 4},
	}
	stock := map[string]models.InventoryItem{
		"Esfera X": {Product: "Esfera X", Quantity: 3},
		"Cubo":     {Product: "Cubo", Quantity: 2},
		"Cone":     {Product: "Cone", Quantity: 10},
	}
	assert.Equal(t, []string{"Esfera X", "Piramide"}, shortfall(demands, stock))
	assert.Empty(t, shortfall(demands[1:2], stock))
}
