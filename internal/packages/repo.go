package packages

import (
	"context"

	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
)

// Repository reads the pacotes catalog.
type Repository interface {
	ListDistinct(ctx context.Context) ([]models.Package, error)
	FindByID(ctx context.Context, packageID int64) (*models.Package, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListDistinct keeps the lowest id per description.
func (r *repository) ListDistinct(ctx context.Context) ([]models.Package, error) {
	firstPerDescription := r.db.Model(&models.Package{}).Select("MIN(id)").Group("descricao")
	var rows []models.Package
	err := r.db.WithContext(ctx).
		Where("id IN (?)", firstPerDescription).
		Order("descricao ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, packageID int64) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).Where("id = ?", packageID).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}
