package server

import (
	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPrices handles GET /api/prices
// @Summary Market prices
// @Description List current wholesale market prices. Served from cache when Redis is available.
// @Tags prices
// @Produce json
// @Success 200 {object} object{prices=[]models.MarketPrice}
// @Router /prices [get]
func (s *Server) GetPrices(c *fiber.Ctx) error {
	prices, err := s.priceService.List(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"prices": prices})
}

// RefreshPrices handles POST /api/prices/refresh
// @Summary Refresh market prices
// @Description Invalidate the cached snapshot and rebuild it
// @Tags prices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{prices=[]models.MarketPrice}
// @Failure 403 {object} models.ErrorResponse
// @Router /prices/refresh [post]
func (s *Server) RefreshPrices(c *fiber.Ctx) error {
	prices, err := s.priceService.Refresh(c.Context(), middleware.ActorFromCtx(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"prices": prices})
}
