package inventory

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/enums"
)

// Repository persists revendedor_estoque rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, resellerID int64, search string) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, resellerID, itemID int64) (*models.InventoryItem, error)
	FindByProducts(ctx context.Context, resellerID int64, products []string, forUpdate bool) ([]models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, itemID int64, updates map[string]any) error
	Decrement(ctx context.Context, itemID int64, qty int) (int64, error)
	Delete(ctx context.Context, resellerID, itemID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, resellerID int64, search string) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).Where("revendedor_id = ?", resellerID)
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		query = query.Where("LOWER(produto) LIKE ?", "%"+term+"%")
	}
	var items []models.InventoryItem
	if err := query.Order("produto ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, resellerID, itemID int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND revendedor_id = ?", itemID, resellerID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByProducts loads the reseller's rows for the given product names,
// optionally locking them for the rest of the transaction.
func (r *repository) FindByProducts(ctx context.Context, resellerID int64, products []string, forUpdate bool) ([]models.InventoryItem, error) {
	if len(products) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var items []models.InventoryItem
	err := query.
		Where("revendedor_id = ? AND produto IN ?", resellerID, products).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, itemID int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

// Decrement subtracts qty only while enough stock remains and rewrites the
// label from the new quantity. Zero affected rows means the guard failed.
func (r *repository) Decrement(ctx context.Context, itemID int64, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantidade >= ?", itemID, qty).
		Updates(map[string]any{
			"quantidade": gorm.Expr("quantidade - ?", qty),
			"status": gorm.Expr(
				"CASE WHEN quantidade - ? <= 0 THEN ? WHEN quantidade - ? <= ? THEN ? ELSE ? END",
				qty, enums.InventoryOutOfStock.String(),
				qty, enums.LowStockThreshold, enums.InventoryLowStock.String(),
				enums.InventoryInStock.String(),
			),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, resellerID, itemID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND revendedor_id = ?", itemID, resellerID).
		Delete(&models.InventoryItem{})
	return res.RowsAffected, res.Error
}
