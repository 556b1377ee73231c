package server

import (
	"mushroomservice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProducts handles GET /api/products
// @Summary List products
// @Description List catalog products, optionally narrowed to a section or featured items
// @Tags products
// @Produce json
// @Param section query string false "Section filter (fresh, supplies, equipment)"
// @Param featured query bool false "Featured items only"
// @Success 200 {object} object{products=[]models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Router /products [get]
func (s *Server) GetProducts(c *fiber.Ctx) error {
	products, err := s.productService.ListProducts(
		c.Context(), c.Query("section"), c.QueryBool("featured", false))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"products": products})
}

// GetProduct handles GET /api/products/:sku
// @Summary Get product
// @Tags products
// @Produce json
// @Param sku path string true "Product SKU"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{sku} [get]
func (s *Server) GetProduct(c *fiber.Ctx) error {
	product, err := s.productService.GetProduct(c.Context(), c.Params("sku"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(product)
}
