package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/dbtest"
	"github.com/revendedor/painel-backend/pkg/db/models"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

func seedItem(t *testing.T, db *gorm.DB, resellerID int64, product string, qty int) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		ResellerID: resellerID,
		PackageID:  int64(len(product)) + resellerID*100,
		Product:    product,
		Quantity:   qty,
		Price:      decimal.NewFromInt(10),
	}
	dbtest.MustCreate(t, db, &item)
	return item
}

func TestLedgerSnapshotKeysByProduct(t *testing.T) {
	db := dbtest.Open(t)
	seedItem(t, db, 1, "Esfera X", 3)
	seedItem(t, db, 1, "Cubo", 12)
	seedItem(t, db, 2, "Esfera X", 99)

	ledger := NewLedger(NewRepository(db))
	snapshot, err := ledger.Snapshot(context.Background(), nil, 1, []string{"Esfera X", "Piramide"}, false)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, 3, snapshot["Esfera X"].Quantity)
}

func TestLedgerDecrementRewritesLabel(t *testing.T) {
	cases := []struct {
		start, take int
		label       string
	}{
		{start: 10, take: 5, label: "Estoque baixo"},
		{start: 50, take: 10, label: "Em estoque"},
		{start: 4, take: 4, label: "Sem estoque"},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			db := dbtest.Open(t)
			item := seedItem(t, db, 1, "Esfera X", tc.start)
			require.NoError(t, db.Model(&item).Update("status", "Reservado").Error)

			ledger := NewLedger(NewRepository(db))
			var remaining int
			err := db.Transaction(func(tx *gorm.DB) error {
				var err error
				remaining, err = ledger.Decrement(context.Background(), tx, item, tc.take)
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, tc.start-tc.take, remaining)

			var stored models.InventoryItem
			require.NoError(t, db.First(&stored, item.ID).Error)
			assert.Equal(t, tc.start-tc.take, stored.Quantity)
			require.NotNil(t, stored.Status)
			assert.Equal(t, tc.label, *stored.Status)
		})
	}
}

func TestLedgerDecrementGuardRejectsOverdraw(t *testing.T) {
	db := dbtest.Open(t)
	item := seedItem(t, db, 1, "Esfera X", 3)

	ledger := NewLedger(NewRepository(db))
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Decrement(context.Background(), tx, item, 5)
		return err
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.Equal(t, map[string]any{"insufficient_items": []string{"Esfera X"}}, typed.Details())

	var stored models.InventoryItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, 3, stored.Quantity)
}

func TestLedgerDecrementRequiresTransaction(t *testing.T) {
	ledger := NewLedger(NewRepository(dbtest.Open(t)))
	_, err := ledger.Decrement(context.Background(), nil, models.InventoryItem{ID: 1}, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
