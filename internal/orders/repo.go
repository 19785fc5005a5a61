package orders

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/enums"
	"github.com/revendedor/painel-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

type listOrdersParams struct {
	ResellerID int64
	Statuses   []enums.FulfillmentStatus
	Limit      int
	Cursor     *pagination.Cursor
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindOrder scopes the lookup to the reseller, so a foreign order reads as
// missing.
func (r *repository) FindOrder(ctx context.Context, resellerID, orderID int64, forUpdate bool) (*models.Order, error) {
	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	err := query.
		Where("id = ? AND revendedor_id = ?", orderID, resellerID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindItems(ctx context.Context, orderIDs []int64) ([]ItemRow, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var rows []ItemRow
	err := r.db.WithContext(ctx).
		Table("pedido_itens AS i").
		Select("i.id, i.pedido_id, i.pacote_id, i.qtd, i.valor_unitario, p.descricao").
		Joins("LEFT JOIN pacotes AS p ON p.id = i.pacote_id").
		Where("i.pedido_id IN ?", orderIDs).
		Order("i.pedido_id ASC, i.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListOrders(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("revendedor_id = ?", params.ResellerID).
		Where("status_detalhado IN ?", params.Statuses)
	if params.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, nil, err
	}
	if len(orders) > normalized {
		last := orders[normalized-1]
		return orders[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return orders, nil, nil
}

func (r *repository) FindCustomerNames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
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

func (r *repository) UpdateOrder(ctx context.Context, orderID int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}
