package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/dbtest"
	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/enums"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

var brasilia = time.FixedZone("BRT", -3*60*60)

func at(y int, m time.Month, d, h int) *time.Time {
	ts := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	return &ts
}

func seed(t *testing.T) *gorm.DB {
	t.Helper()
	db := dbtest.Open(t)
	low := "Estoque baixo"
	dbtest.MustCreate(t, db,
		&models.User{ID: 20, FirstName: "Ana", LastName: "Lima", Email: "ana@example.com"},
		&models.User{ID: 21, FirstName: "Bruno", Email: "bruno@example.com"},
		&models.Customer{ResellerID: 1, UserID: 20, Name: "Ana Lima"},
		&models.Customer{ResellerID: 1, UserID: 21, Name: "Bruno"},
		&models.Customer{ResellerID: 2, UserID: 20, Name: "Ana Lima"},
		&models.InventoryItem{ResellerID: 1, PackageID: 1, Product: "Esfera X", Quantity: 5, Price: decimal.NewFromInt(10)},
		&models.InventoryItem{ResellerID: 1, PackageID: 2, Product: "Cubo", Quantity: 40, Price: decimal.NewFromInt(10)},
		&models.InventoryItem{ResellerID: 1, PackageID: 3, Product: "Cone", Quantity: 90, Status: &low, Price: decimal.NewFromInt(10)},
		&models.InventoryItem{ResellerID: 1, PackageID: 4, Product: "Piramide", Quantity: 0, Price: decimal.NewFromInt(10)},
	)
	orders := []models.Order{
		{ID: 1, Number: "1", CustomerUserID: 20, ResellerID: 1, Total: decimal.RequireFromString("100.10"), Status: enums.FulfillmentDelivered, DeliveredAt: at(2026, 1, 15, 12)},
		{ID: 2, Number: "2", CustomerUserID: 21, ResellerID: 1, Total: decimal.RequireFromString("50.20"), Status: enums.FulfillmentPickedUp, DeliveredAt: at(2026, 3, 1, 1)},
		{ID: 3, Number: "3", CustomerUserID: 20, ResellerID: 1, Total: decimal.RequireFromString("10.00"), Status: enums.FulfillmentDelivered, DeliveredAt: at(2026, 3, 20, 12)},
		{ID: 4, Number: "4", CustomerUserID: 20, ResellerID: 1, Total: decimal.RequireFromString("999"), Status: enums.FulfillmentAccepted},
		{ID: 5, Number: "5", CustomerUserID: 20, ResellerID: 2, Total: decimal.RequireFromString("70"), Status: enums.FulfillmentDelivered, DeliveredAt: at(2026, 2, 2, 12)},
		{ID: 6, Number: "6", CustomerUserID: 21, ResellerID: 1, Total: decimal.RequireFromString("5"), Status: enums.FulfillmentDelivered, DeliveredAt: at(2025, 12, 31, 12)},
	}
	for i := range orders {
		dbtest.MustCreate(t, db, &orders[i])
	}
	return db
}

func TestSummary(t *testing.T) {
	svc, err := NewService(NewRepository(seed(t)), brasilia)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 135, summary.TotalUnits)
	assert.Equal(t, 4, summary.ProductCount)
	assert.Equal(t, 2, summary.LowStockCount)
	assert.Equal(t, int64(2), summary.CustomerCount)
	assert.Equal(t, int64(5), summary.OrderCount)
	assert.Equal(t, "165.30", summary.Revenue.StringFixed(2))
}

func TestRecentSalesNewestFirst(t *testing.T) {
	svc, err := NewService(NewRepository(seed(t)), brasilia)
	require.NoError(t, err)

	sales, err := svc.RecentSales(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, sales, 4)
	assert.Equal(t, "3", sales[0].Number)
	assert.Equal(t, "Ana Lima", sales[0].CustomerName)
	assert.Equal(t, "Bruno", sales[1].CustomerName)

	limited, err := svc.RecentSales(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMonthlySalesBucketsInBusinessTimezone(t *testing.T) {
	svc, err := NewService(NewRepository(seed(t)), brasilia)
	require.NoError(t, err)

	months, err := svc.MonthlySales(context.Background(), 1, 2026)
	require.NoError(t, err)
	require.Len(t, months, 12)
	assert.Equal(t, "Jan", months[0].Month)
	assert.Equal(t, "Dez", months[11].Month)
	assert.Equal(t, "100.10", months[0].Total.StringFixed(2))
	// 2026-03-01 01:00 UTC is still February in Brasilia.
	assert.Equal(t, "50.20", months[1].Total.StringFixed(2))
	assert.Equal(t, "10.00", months[2].Total.StringFixed(2))
	assert.True(t, months[11].Total.IsZero())

	_, err = svc.MonthlySales(context.Background(), 1, 12)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
