package models

import (
	"time"
)

// Material mirrors Category: a per-owner named grouping with the same
// (name, shop_owner_id) uniqueness rule.
type Material struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_material_name_owner" json:"name"`
	ShopOwnerID string    `gorm:"size:36;not null;index;uniqueIndex:idx_material_name_owner" json:"shopOwnerId"`
	ShopOwner   ShopOwner `gorm:"foreignKey:ShopOwnerID" json:"-"`
	IsCustom    bool      `gorm:"default:true" json:"isCustom"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}
