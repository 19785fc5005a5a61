package resellers

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
)

// Repository persists revendedores rows.
type Repository interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Reseller, error)
	FindByID(ctx context.Context, resellerID int64) (*models.Reseller, error)
	UpdateFreight(ctx context.Context, resellerID int64, fee decimal.Decimal) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a resellers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByUserID(ctx context.Context, userID int64) (*models.Reseller, error) {
	var reseller models.Reseller
	if err := r.db.WithContext(ctx).Where("usuario_id = ?", userID).First(&reseller).Error; err != nil {
		return nil, err
	}
	return &reseller, nil
}

func (r *repository) FindByID(ctx context.Context, resellerID int64) (*models.Reseller, error) {
	var reseller models.Reseller
	if err := r.db.WithContext(ctx).Where("id = ?", resellerID).First(&reseller).Error; err != nil {
		return nil, err
	}
	return &reseller, nil
}

func (r *repository) UpdateFreight(ctx context.Context, resellerID int64, fee decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reseller{}).
		Where("id = ?", resellerID).
		Update("frete", fee)
	return res.RowsAffected, res.Error
}
