package models

import (
	"time"
)

type ShopOwner struct {
	ID                   string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name                 string     `gorm:"size:100;not null" json:"name"`
	Email                string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password             string     `gorm:"size:255;not null" json:"-"`
	ShopName             string     `gorm:"size:150;not null" json:"shopName"`
	City                 string     `gorm:"size:100;not null" json:"city"`
	MobileNumber         string     `gorm:"size:10;not null;uniqueIndex" json:"mobileNumber"`
	Phone                string     `gorm:"size:20" json:"phone,omitempty"`
	Address              string     `gorm:"size:255" json:"address,omitempty"`
	GoogleMapsLink       string     `gorm:"size:512" json:"googleMapsLink,omitempty"`
	ProfileImage         string     `gorm:"size:512" json:"profileImage,omitempty"`
	PasswordResetToken   *string    `gorm:"size:255;uniqueIndex;null" json:"-"`
	PasswordResetExpires *time.Time `gorm:"null" json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"-"`
}
