package customers

import (
	"context"

	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
)

// Repository persists clientes rows and reads the user names they copy.
type Repository interface {
	Exists(ctx context.Context, resellerID, userID int64) (bool, error)
	FindUser(ctx context.Context, userID int64) (*models.User, error)
	Create(ctx context.Context, customer *models.Customer) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Exists(ctx context.Context, resellerID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("revendedor_id = ? AND usuario_id = ?", resellerID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}
