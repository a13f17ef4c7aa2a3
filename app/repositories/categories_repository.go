package repositories

import (
	"context"

	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepositoryImpl is owner-scoped: every query filters on the acting
// owner's id so one tenant can never read or mutate another tenant's rows.
type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	FindByOwner(ctx context.Context, ownerID string) ([]models.Category, error)
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Category, error)
	FindByNameForOwner(ctx context.Context, name, ownerID string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id, ownerID string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("shop_owner_id = ?", ownerID).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ? AND shop_owner_id = ?", id, ownerID).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByNameForOwner(ctx context.Context, name, ownerID string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("name = ? AND shop_owner_id = ?", name, ownerID).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).Where("id = ? AND shop_owner_id = ?", id, ownerID).Delete(&models.Category{}).Error
}
