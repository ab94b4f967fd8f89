package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/models"
)

func staticProducts() []models.Product {
	return []models.Product{
		{
			Name:        "ZYLM AirClean Pro",
			Description: "Commercial-grade air purification unit with multi-stage HEPA filtration.",
			Category:    "air-purification",
			Price:       48999,
			ImageURL:    "/images/products/airclean-pro.jpg",
			Specifications: datatypes.JSONMap{
				"coverage_sq_ft": 1200,
				"filter":         "H13 HEPA + activated carbon",
				"power_w":        65,
			},
			Features: datatypes.NewJSONSlice([]string{
				"Real-time PM2.5 monitoring",
				"Whisper-quiet night mode",
				"Filter life indicator",
			}),
			Status:   models.ProductStatusActive,
			IsStatic: true,
		},
		{
			Name:        "ZYLM SolarGrid 5kW",
			Description: "Grid-tied rooftop solar system for homes and small offices.",
			Category:    "solar",
			Price:       285000,
			ImageURL:    "/images/products/solargrid-5kw.jpg",
			Specifications: datatypes.JSONMap{
				"capacity_kw": 5,
				"panels":      "Mono PERC 540W",
				"warranty_yr": 25,
			},
			Features: datatypes.NewJSONSlice([]string{
				"Net-metering ready",
				"Remote generation monitoring",
			}),
			Status:   models.ProductStatusActive,
			IsStatic: true,
		},
	}
}

// SeedProducts inserts the static catalog when no products exist yet.
func SeedProducts(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := staticProducts()
	return conn.Create(&products).Error
}
