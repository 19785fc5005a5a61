package resellers

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

// Service resolves the signed-in reseller and manages its settings.
type Service interface {
	Resolve(ctx context.Context, userID int64) (*Identity, error)
	GetFreight(ctx context.Context, resellerID int64) (*Freight, error)
	UpdateFreight(ctx context.Context, resellerID int64, fee decimal.Decimal) (*Freight, error)
}

// Identity ties a platform user to the reseller it operates.
type Identity struct {
	UserID     int64  `json:"user_id"`
	ResellerID int64  `json:"reseller_id"`
	StoreName  string `json:"store_name"`
}

// Freight is the reseller's delivery fee.
type Freight struct {
	ResellerID int64           `json:"reseller_id"`
	Fee        decimal.Decimal `json:"fee"`
}

type service struct {
	repo Repository
}

// NewService builds the resellers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("resellers repository required")
	}
	return &service{repo: repo}, nil
}

// Resolve fails with UNAUTHORIZED when the user has no reseller account so
// callers can stop before any mutation.
func (s *service) Resolve(ctx context.Context, userID int64) (*Identity, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	reseller, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not resolve reseller")
	}
	return &Identity{UserID: userID, ResellerID: reseller.ID, StoreName: reseller.StoreName}, nil
}

func (s *service) GetFreight(ctx context.Context, resellerID int64) (*Freight, error) {
	reseller, err := s.repo.FindByID(ctx, resellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reseller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load reseller")
	}
	return &Freight{ResellerID: reseller.ID, Fee: reseller.FreightFee}, nil
}

func (s *service) UpdateFreight(ctx context.Context, resellerID int64, fee decimal.Decimal) (*Freight, error) {
	if fee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "freight fee must be zero or more").
			WithDetails(map[string]string{"field": "fee"})
	}
	fee = fee.Round(2)
	affected, err := s.repo.UpdateFreight(ctx, resellerID, fee)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not update freight fee")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reseller not found")
	}
	return &Freight{ResellerID: resellerID, Fee: fee}, nil
}
