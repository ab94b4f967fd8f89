package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/utils"
)

// ProductHandler manages product CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.Product{})

	if v := c.Query("category"); v != "" {
		query = query.Where("category = ?", v)
	}

	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return apperr.Storage("count products", err)
	}

	var products []models.Product
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("is_static desc, created_at desc").
		Find(&products).Error; err != nil {
		return apperr.Storage("list products", err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       products,
		"pagination": pg.Meta(total),
	})
}

// GetProduct loads a product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.find(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	Category       *string        `json:"category"`
	Price          *float64       `json:"price"`
	ImageURL       *string        `json:"image_url"`
	Specifications map[string]any `json:"specifications"`
	Features       []string       `json:"features"`
	Status         *string        `json:"status"`
}

// CreateProduct adds a catalog entry.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product := models.Product{Status: models.ProductStatusActive}
	if err := applyProductRequest(&product, req); err != nil {
		return err
	}
	if product.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	if err := h.db.WithContext(c.UserContext()).Create(&product).Error; err != nil {
		return apperr.Storage("create product", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct changes the fields present in the body.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.find(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := applyProductRequest(product, req); err != nil {
		return err
	}
	if product.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	if err := h.db.WithContext(c.UserContext()).Save(product).Error; err != nil {
		return apperr.Storage("update product", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product. Seeded static products are protected.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	product, err := h.find(c)
	if err != nil {
		return err
	}
	if product.IsStatic {
		return apperr.Forbidden("static products cannot be deleted")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&models.Product{}, "id = ?", product.ID).Error; err != nil {
		return apperr.Storage("delete product", err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ProductHandler) find(c *fiber.Ctx) (*models.Product, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.WithContext(c.UserContext()).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return nil, apperr.Storage("load product", err)
	}
	return &product, nil
}

func applyProductRequest(product *models.Product, req productRequest) error {
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
		}
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Specifications != nil {
		product.Specifications = datatypes.JSONMap(req.Specifications)
	}
	if req.Features != nil {
		product.Features = datatypes.NewJSONSlice(req.Features)
	}
	if req.Status != nil {
		if !models.ValidProductStatus(*req.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "status must be one of: active, draft, archived")
		}
		product.Status = *req.Status
	}
	return nil
}
