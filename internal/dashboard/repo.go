package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/enums"
)

// Repository aggregates a reseller's stock, customers and completed sales.
type Repository interface {
	InventoryRows(ctx context.Context, resellerID int64) ([]models.InventoryItem, error)
	CountCustomers(ctx context.Context, resellerID int64) (int64, error)
	CountOrders(ctx context.Context, resellerID int64) (int64, error)
	Revenue(ctx context.Context, resellerID int64) (decimal.Decimal, error)
	CompletedOrders(ctx context.Context, resellerID int64, limit int) ([]models.Order, error)
	CompletedBetween(ctx context.Context, resellerID int64, from, to time.Time) ([]models.Order, error)
	CustomerNames(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InventoryRows(ctx context.Context, resellerID int64) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	if err := r.db.WithContext(ctx).Where("revendedor_id = ?", resellerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountCustomers(ctx context.Context, resellerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("revendedor_id = ?", resellerID).Count(&count).Error
	return count, err
}

func (r *repository) CountOrders(ctx context.Context, resellerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("revendedor_id = ?", resellerID).Count(&count).Error
	return count, err
}

func (r *repository) Revenue(ctx context.Context, resellerID int64) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(valor_total), 0) AS total").
		Where("revendedor_id = ? AND status_detalhado IN ?", resellerID, enums.CompletedFulfillmentStatuses).
		Scan(&out).Error
	return out.Total, err
}

// CompletedOrders returns the latest delivered or picked-up orders; rows
// without a delivery stamp sort last.
func (r *repository) CompletedOrders(ctx context.Context, resellerID int64, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("revendedor_id = ? AND status_detalhado IN ?", resellerID, enums.CompletedFulfillmentStatuses).
		Order("CASE WHEN data_entrega_real IS NULL THEN 1 ELSE 0 END, data_entrega_real DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CompletedBetween(ctx context.Context, resellerID int64, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("revendedor_id = ? AND status_detalhado IN ?", resellerID, enums.CompletedFulfillmentStatuses).
		Where("data_entrega_real >= ? AND data_entrega_real < ?", from, to).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CustomerNames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, user := range users {
		names[user.ID] = user.FullName()
	}
	return names, nil
}
