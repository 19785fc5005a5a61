package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db"
	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/enums"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

const maxStatusLabelLength = 64

// PackageLookup resolves catalog packages for pricing floors and product names.
type PackageLookup interface {
	FindByID(ctx context.Context, packageID int64) (*models.Package, error)
}

// Service manages a reseller's stock.
type Service interface {
	List(ctx context.Context, resellerID int64, search string) ([]Item, error)
	Add(ctx context.Context, input AddInput) (*Item, error)
	AdjustStock(ctx context.Context, resellerID, itemID int64, quantity int) (*Item, error)
	UpdatePrice(ctx context.Context, resellerID, itemID int64, price decimal.Decimal) (*Item, error)
	OverrideStatus(ctx context.Context, resellerID, itemID int64, label *string) (*Item, error)
	Delete(ctx context.Context, resellerID, itemID int64) error
}

// Item is an inventory row with its resolved display status.
type Item struct {
	ID           int64               `json:"id"`
	PackageID    int64               `json:"package_id"`
	Product      string              `json:"product"`
	Quantity     int                 `json:"quantity"`
	Price        decimal.Decimal     `json:"price"`
	Status       string              `json:"status"`
	Severity     enums.StockSeverity `json:"severity"`
	StoredStatus *string             `json:"stored_status,omitempty"`
}

// AddInput stocks a catalog package for a reseller.
type AddInput struct {
	ResellerID int64
	PackageID  int64
	Quantity   int
	Price      decimal.Decimal
}

type service struct {
	repo     Repository
	packages PackageLookup
}

// NewService builds the inventory service.
func NewService(repo Repository, packages PackageLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if packages == nil {
		return nil, fmt.Errorf("package lookup required")
	}
	return &service{repo: repo, packages: packages}, nil
}

// ToItem resolves the display status for a stored row.
func ToItem(row models.InventoryItem) Item {
	display, severity := StatusOf(row.Status, row.Quantity).Resolve()
	return Item{
		ID:           row.ID,
		PackageID:    row.PackageID,
		Product:      row.Product,
		Quantity:     row.Quantity,
		Price:        row.Price,
		Status:       display,
		Severity:     severity,
		StoredStatus: row.Status,
	}
}

func (s *service) List(ctx context.Context, resellerID int64, search string) ([]Item, error) {
	if resellerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	rows, err := s.repo.List(ctx, resellerID, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not list inventory")
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToItem(row))
	}
	return items, nil
}

func (s *service) Add(ctx context.Context, input AddInput) (*Item, error) {
	if input.ResellerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	if input.PackageID <= 0 {
		return nil, fieldError("package_id", "package id required")
	}
	if input.Quantity < 0 {
		return nil, fieldError("quantity", "quantity must be zero or more")
	}

	pkg, err := s.packages.FindByID(ctx, input.PackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load package")
	}
	if err := validatePrice(input.Price, pkg.Price); err != nil {
		return nil, err
	}

	label := DeriveLabel(input.Quantity).String()
	row := &models.InventoryItem{
		ResellerID: input.ResellerID,
		PackageID:  pkg.ID,
		Product:    pkg.Description,
		Quantity:   input.Quantity,
		Status:     &label,
		Price:      input.Price,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in inventory")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not add product")
	}
	item := ToItem(*row)
	return &item, nil
}

func (s *service) AdjustStock(ctx context.Context, resellerID, itemID int64, quantity int) (*Item, error) {
	if quantity < 0 {
		return nil, fieldError("quantity", "quantity must be zero or more")
	}
	row, err := s.load(ctx, resellerID, itemID)
	if err != nil {
		return nil, err
	}
	label := DeriveLabel(quantity).String()
	if err := s.repo.Update(ctx, row.ID, map[string]any{"quantidade": quantity, "status": label}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not adjust stock")
	}
	row.Quantity = quantity
	row.Status = &label
	item := ToItem(*row)
	return &item, nil
}

func (s *service) UpdatePrice(ctx context.Context, resellerID, itemID int64, price decimal.Decimal) (*Item, error) {
	row, err := s.load(ctx, resellerID, itemID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.packages.FindByID(ctx, row.PackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load package")
	}
	if err := validatePrice(price, pkg.Price); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, row.ID, map[string]any{"preco": price}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not update price")
	}
	row.Price = price
	item := ToItem(*row)
	return &item, nil
}

// OverrideStatus pins a display label on the row; nil clears it so the
// quantity decides again.
func (s *service) OverrideStatus(ctx context.Context, resellerID, itemID int64, label *string) (*Item, error) {
	var stored *string
	if label != nil {
		trimmed := strings.TrimSpace(*label)
		if trimmed == "" {
			return nil, fieldError("status", "status label must not be blank")
		}
		if utf8.RuneCountInString(trimmed) > maxStatusLabelLength {
			return nil, fieldError("status", fmt.Sprintf("status label must be at most %d characters", maxStatusLabelLength))
		}
		stored = &trimmed
	}
	row, err := s.load(ctx, resellerID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, row.ID, map[string]any{"status": stored}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not update stock status")
	}
	row.Status = stored
	item := ToItem(*row)
	return &item, nil
}

func (s *service) Delete(ctx context.Context, resellerID, itemID int64) error {
	if resellerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	affected, err := s.repo.Delete(ctx, resellerID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, resellerID, itemID int64) (*models.InventoryItem, error) {
	if resellerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	row, err := s.repo.FindByID(ctx, resellerID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load product")
	}
	return row, nil
}

func validatePrice(price, floor decimal.Decimal) error {
	if !price.IsPositive() {
		return fieldError("price", "price must be greater than zero")
	}
	if price.LessThan(floor) {
		return fieldError("price", fmt.Sprintf("price must be at least %s", floor.StringFixed(2)))
	}
	return nil
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]string{"field": field})
}
