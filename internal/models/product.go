package models

import (
	"gorm.io/datatypes"
)

const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// ValidProductStatus reports whether status is a known catalog status.
func ValidProductStatus(status string) bool {
	switch status {
	case ProductStatusActive, ProductStatusDraft, ProductStatusArchived:
		return true
	}
	return false
}

// Product is an entry of the website catalog. Static products are seeded at
// boot and cannot be deleted through the API.
type Product struct {
	BaseModel
	Name           string                      `gorm:"not null" json:"name"`
	Description    string                      `gorm:"type:text" json:"description"`
	Category       string                      `gorm:"index" json:"category"`
	Price          float64                     `json:"price"`
	ImageURL       string                      `json:"image_url"`
	Specifications datatypes.JSONMap           `json:"specifications"`
	Features       datatypes.JSONSlice[string] `json:"features"`
	Status         string                      `gorm:"index;not null;default:active" json:"status"`
	IsStatic       bool                        `gorm:"not null;default:false" json:"is_static"`
}
