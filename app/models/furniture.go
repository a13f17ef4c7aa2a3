package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Furniture struct {
	ID          string           `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ShopOwnerID string           `gorm:"size:36;not null;index" json:"shopOwnerId"`
	ShopOwner   ShopOwner        `gorm:"foreignKey:ShopOwnerID" json:"-"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Category    string           `gorm:"size:100;not null" json:"category"`
	Material    string           `gorm:"size:100" json:"material"`
	Price       decimal.Decimal  `gorm:"type:decimal(16,2)" json:"price"`
	Description string           `gorm:"type:text" json:"description"`
	Images      []FurnitureImage `gorm:"foreignKey:FurnitureID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"-"`
}

// FurnitureImage is a reference to an object on the external image host.
// PublicID is the host-side identifier needed to delete the object; every
// image belongs to exactly one furniture row at a time.
type FurnitureImage struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"-"`
	FurnitureID string    `gorm:"size:36;not null;index" json:"-"`
	URL         string    `gorm:"size:512;not null" json:"url"`
	PublicID    string    `gorm:"size:255;not null" json:"publicId"`
	Position    int       `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time `json:"-"`
}
