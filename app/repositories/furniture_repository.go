package repositories

import (
	"context"
	"strings"

	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogFilter narrows the public furniture listing. Price bounds are
// inclusive; City matches the owning shop's city as a case-insensitive
// substring via a join on shop_owners.
type CatalogFilter struct {
	Category string
	Material string
	City     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type FurnitureRepositoryImpl interface {
	Create(ctx context.Context, furniture *models.Furniture) error
	FindByOwner(ctx context.Context, ownerID string) ([]models.Furniture, error)
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Furniture, error)
	Update(ctx context.Context, furniture *models.Furniture) error
	ReplaceImages(ctx context.Context, furnitureID string, images []models.FurnitureImage) error
	Delete(ctx context.Context, id, ownerID string) error
	Search(ctx context.Context, filter CatalogFilter) ([]models.Furniture, error)
	FindByShop(ctx context.Context, shopOwnerID string) ([]models.Furniture, error)
	CountByCategoryName(ctx context.Context, ownerID, name string) (int64, error)
	CountByMaterialName(ctx context.Context, ownerID, name string) (int64, error)
}

type furnitureRepository struct {
	db *gorm.DB
}

func NewFurnitureRepository(db *gorm.DB) FurnitureRepositoryImpl {
	return &furnitureRepository{db}
}

func (r *furnitureRepository) Create(ctx context.Context, furniture *models.Furniture) error {
	if furniture.ID == "" {
		furniture.ID = uuid.New().String()
	}
	for i := range furniture.Images {
		if furniture.Images[i].ID == "" {
			furniture.Images[i].ID = uuid.New().String()
		}
		furniture.Images[i].FurnitureID = furniture.ID
		furniture.Images[i].Position = i
	}
	return r.db.WithContext(ctx).Create(furniture).Error
}

func (r *furnitureRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Furniture, error) {
	var furniture []models.Furniture
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("shop_owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&furniture).Error
	if err != nil {
		return nil, err
	}
	return furniture, nil
}

func (r *furnitureRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Furniture, error) {
	var furniture models.Furniture
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND shop_owner_id = ?", id, ownerID).
		First(&furniture).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &furniture, nil
}

func (r *furnitureRepository) Update(ctx context.Context, furniture *models.Furniture) error {
	// Images are replaced separately so the external-delete-first ordering
	// stays in the caller's hands.
	return r.db.WithContext(ctx).Omit("Images").Save(furniture).Error
}

func (r *furnitureRepository) ReplaceImages(ctx context.Context, furnitureID string, images []models.FurnitureImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("furniture_id = ?", furnitureID).Delete(&models.FurnitureImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			if images[i].ID == "" {
				images[i].ID = uuid.New().String()
			}
			images[i].FurnitureID = furnitureID
			images[i].Position = i
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

func (r *furnitureRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("furniture_id = ?", id).Delete(&models.FurnitureImage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND shop_owner_id = ?", id, ownerID).Delete(&models.Furniture{}).Error
	})
}

func (r *furnitureRepository) Search(ctx context.Context, filter CatalogFilter) ([]models.Furniture, error) {
	q := r.db.WithContext(ctx).Model(&models.Furniture{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })

	if filter.Category != "" {
		q = q.Where("furnitures.category = ?", filter.Category)
	}
	if filter.Material != "" {
		q = q.Where("furnitures.material = ?", filter.Material)
	}
	if filter.MinPrice != nil {
		q = q.Where("furnitures.price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("furnitures.price <= ?", filter.MaxPrice)
	}
	if filter.City != "" {
		q = q.Joins("JOIN shop_owners ON shop_owners.id = furnitures.shop_owner_id").
			Where("LOWER(shop_owners.city) LIKE ?", "%"+strings.ToLower(filter.City)+"%")
	}

	var furniture []models.Furniture
	if err := q.Find(&furniture).Error; err != nil {
		return nil, err
	}
	return furniture, nil
}

func (r *furnitureRepository) FindByShop(ctx context.Context, shopOwnerID string) ([]models.Furniture, error) {
	var furniture []models.Furniture
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("shop_owner_id = ?", shopOwnerID).
		Order("title ASC").
		Find(&furniture).Error
	if err != nil {
		return nil, err
	}
	return furniture, nil
}

func (r *furnitureRepository) CountByCategoryName(ctx context.Context, ownerID, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Furniture{}).
		Where("shop_owner_id = ? AND category = ?", ownerID, name).
		Count(&count).Error
	return count, err
}

func (r *furnitureRepository) CountByMaterialName(ctx context.Context, ownerID, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Furniture{}).
		Where("shop_owner_id = ? AND material = ?", ownerID, name).
		Count(&count).Error
	return count, err
}
