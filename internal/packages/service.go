package packages

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/revendedor/painel-backend/pkg/db/models"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
)

// Service exposes the catalog resellers pick products from.
type Service interface {
	List(ctx context.Context) ([]PackageDTO, error)
}

// PackageDTO is the catalog entry shown when stocking a product.
type PackageDTO struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("packages repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]PackageDTO, error) {
	rows, err := s.repo.ListDistinct(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load packages")
	}
	out := make([]PackageDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func toDTO(row models.Package) PackageDTO {
	return PackageDTO{
		ID:          row.ID,
		Description: row.Description,
		Color:       row.Color,
		Price:       row.Price,
		ImageURL:    row.ImageURL,
	}
}
