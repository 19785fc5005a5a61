package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/outbox"
	"github.com/revendedor/painel-backend/pkg/pagination"
)

// Repository defines persistence operations for pedidos and pedido_itens.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrder(ctx context.Context, resellerID, orderID int64, forUpdate bool) (*models.Order, error)
	FindItems(ctx context.Context, orderIDs []int64) ([]ItemRow, error)
	ListOrders(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error)
	FindCustomerNames(ctx context.Context, userIDs []int64) (map[int64]string, error)
	UpdateOrder(ctx context.Context, orderID int64, updates map[string]any) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// InventoryLedger reads and consumes reseller stock inside the caller's
// transaction.
type InventoryLedger interface {
	Snapshot(ctx context.Context, tx *gorm.DB, resellerID int64, products []string, lock bool) (map[string]models.InventoryItem, error)
	Decrement(ctx context.Context, tx *gorm.DB, item models.InventoryItem, qty int) (int, error)
}

// CustomerLinker adds an order's customer to the reseller's customer list.
type CustomerLinker interface {
	EnsureLinked(ctx context.Context, resellerID, userID int64) (bool, error)
}
