package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revendedor/painel-backend/internal/inventory"
	"github.com/revendedor/painel-backend/pkg/enums"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

const (
	DefaultRecentSales = 5
	MaxRecentSales     = 20
)

var monthLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// Service computes the reseller's dashboard figures.
type Service interface {
	Summary(ctx context.Context, resellerID int64) (*Summary, error)
	RecentSales(ctx context.Context, resellerID int64, limit int) ([]Sale, error)
	MonthlySales(ctx context.Context, resellerID int64, year int) ([]MonthTotal, error)
}

// Summary is the headline card set.
type Summary struct {
	TotalUnits    int             `json:"total_units"`
	ProductCount  int             `json:"product_count"`
	LowStockCount int             `json:"low_stock_count"`
	CustomerCount int64           `json:"customer_count"`
	OrderCount    int64           `json:"order_count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// Sale is one completed order in the recent sales list.
type Sale struct {
	OrderID      int64           `json:"order_id"`
	Number       string          `json:"number"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	DeliveredAt  *time.Time      `json:"delivered_at,omitempty"`
}

// MonthTotal is one bar of the yearly sales chart.
type MonthTotal struct {
	Month string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type service struct {
	repo Repository
	loc  *time.Location
}

// NewService builds the dashboard service; months are bucketed in loc.
func NewService(repo Repository, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc}, nil
}

func (s *service) Summary(ctx context.Context, resellerID int64) (*Summary, error) {
	if resellerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	rows, err := s.repo.InventoryRows(ctx, resellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load dashboard")
	}
	summary := &Summary{ProductCount: len(rows)}
	for _, row := range rows {
		summary.TotalUnits += row.Quantity
		if _, severity := inventory.StatusOf(row.Status, row.Quantity).Resolve(); severity == enums.StockSeverityWarning {
			summary.LowStockCount++
		}
	}
	if summary.CustomerCount, err = s.repo.CountCustomers(ctx, resellerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load dashboard")
	}
	if summary.OrderCount, err = s.repo.CountOrders(ctx, resellerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load dashboard")
	}
	revenue, err := s.repo.Revenue(ctx, resellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load dashboard")
	}
	summary.Revenue = revenue.Round(2)
	return summary, nil
}

func (s *service) RecentSales(ctx context.Context, resellerID int64, limit int) ([]Sale, error) {
	if resellerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	switch {
	case limit <= 0:
		limit = DefaultRecentSales
	case limit > MaxRecentSales:
		limit = MaxRecentSales
	}
	orders, err := s.repo.CompletedOrders(ctx, resellerID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load dashboard")
	}
	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.CustomerUserID)
	}
	names, err := s.repo.CustomerNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load dashboard")
	}
	sales := make([]Sale, 0, len(orders))
	for _, order := range orders {
		sales = append(sales, Sale{
			OrderID:      order.ID,
			Number:       order.Number,
			CustomerName: names[order.CustomerUserID],
			Total:        order.Total,
			DeliveredAt:  order.DeliveredAt,
		})
	}
	return sales, nil
}

func (s *service) MonthlySales(ctx context.Context, resellerID int64, year int) ([]MonthTotal, error) {
	if resellerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	if year < 2000 || year > 9999 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year out of range").
			WithDetails(map[string]string{"field": "year"})
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(1, 0, 0)
	orders, err := s.repo.CompletedBetween(ctx, resellerID, from.UTC(), to.UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load dashboard")
	}

	var totals [12]decimal.Decimal
	for _, order := range orders {
		if order.DeliveredAt == nil {
			continue
		}
		month := order.DeliveredAt.In(s.loc).Month()
		totals[month-1] = totals[month-1].Add(order.Total)
	}
	out := make([]MonthTotal, 0, len(monthLabels))
	for i, label := range monthLabels {
		out = append(out, MonthTotal{Month: label, Total: totals[i].Round(2)})
	}
	return out, nil
}
