package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

// Ledger exposes stock reads and decrements to the order workflow. Every
// method joins the caller's transaction when tx is set.
type Ledger struct {
	repo Repository
}

// NewLedger wraps the inventory repository.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Snapshot returns the reseller's rows keyed by product name. With lock set
// the rows stay locked until tx ends.
func (l *Ledger) Snapshot(ctx context.Context, tx *gorm.DB, resellerID int64, products []string, lock bool) (map[string]models.InventoryItem, error) {
	rows, err := l.repo.WithTx(tx).FindByProducts(ctx, resellerID, products, lock)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load stock")
	}
	byProduct := make(map[string]models.InventoryItem, len(rows))
	for _, row := range rows {
		byProduct[row.Product] = row
	}
	return byProduct, nil
}

// Decrement removes qty from item and returns the remaining quantity. The
// update is guarded, so a concurrent change that left too little stock fails
// with INSUFFICIENT_STOCK instead of going negative.
func (l *Ledger) Decrement(ctx context.Context, tx *gorm.DB, item models.InventoryItem, qty int) (int, error) {
	if tx == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "could not update stock")
	}
	if qty <= 0 {
		return item.Quantity, nil
	}
	affected, err := l.repo.WithTx(tx).Decrement(ctx, item.ID, qty)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not update stock")
	}
	if affected == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"insufficient_items": []string{item.Product}})
	}
	return item.Quantity - qty, nil
}
