package models

import (
	"time"

	"gorm.io/gorm"
)

// Item prices are stored in minor currency units (cents) so payment
// math never touches binary floats.
type Item struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	BuyPrice    int64   `gorm:"not null;default:0" json:"buy_price"`
	Price       int64   `gorm:"not null;default:0" json:"price"`
	ImageURL    *string `json:"image_url,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
