package customers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db"
	"github.com/revendedor/painel-backend/pkg/db/models"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

const uniqueCustomerConstraint = "idx_clientes_revendedor_usuario"

// Service keeps the reseller's customer list in sync with accepted orders.
type Service interface {
	EnsureLinked(ctx context.Context, resellerID, userID int64) (bool, error)
}

type service struct {
	repo Repository
}

// NewService builds the customers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

// EnsureLinked adds the user to the reseller's customers when missing and
// reports whether a row was created. Losing an insert race counts as linked.
func (s *service) EnsureLinked(ctx context.Context, resellerID, userID int64) (bool, error) {
	if resellerID <= 0 || userID <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "reseller and user required")
	}
	exists, err := s.repo.Exists(ctx, resellerID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not link customer")
	}
	if exists {
		return false, nil
	}

	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "customer user not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not link customer")
	}

	customer := &models.Customer{
		ResellerID: resellerID,
		UserID:     userID,
		Name:       user.FullName(),
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, uniqueCustomerConstraint) || db.IsUniqueViolation(err, "clientes.") {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not link customer")
	}
	return true, nil
}
