package models

import (
	"time"
)

// Category names are unique per shop owner, not globally. Two owners can both
// have a "Sofa" category.
type Category struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_category_name_owner" json:"name"`
	ShopOwnerID string    `gorm:"size:36;not null;index;uniqueIndex:idx_category_name_owner" json:"shopOwnerId"`
	ShopOwner   ShopOwner `gorm:"foreignKey:ShopOwnerID" json:"-"`
	IsCustom    bool      `gorm:"default:true" json:"isCustom"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}
