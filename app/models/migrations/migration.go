package migrations

import (
	"github.com/designdekhoo/catalog-api/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ShopOwner{}, &models.Category{}, &models.Material{}, &models.Furniture{}, &models.FurnitureImage{})
}
