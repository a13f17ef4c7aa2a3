package repositories

import (
	"context"

	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialRepositoryImpl interface {
	Create(ctx context.Context, material *models.Material) error
	FindByOwner(ctx context.Context, ownerID string) ([]models.Material, error)
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Material, error)
	FindByNameForOwner(ctx context.Context, name, ownerID string) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id, ownerID string) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepositoryImpl {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		material.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Material, error) {
	var materials []models.Material
	err := r.db.WithContext(ctx).Where("shop_owner_id = ?", ownerID).Order("name ASC").Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).Where("id = ? AND shop_owner_id = ?", id, ownerID).First(&material).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) FindByNameForOwner(ctx context.Context, name, ownerID string) (*models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).Where("name = ? AND shop_owner_id = ?", name, ownerID).First(&material).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) Update(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *materialRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).Where("id = ? AND shop_owner_id = ?", id, ownerID).Delete(&models.Material{}).Error
}
