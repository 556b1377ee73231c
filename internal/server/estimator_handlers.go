package server

import (
	"mushroomservice/internal/estimator"
	"mushroomservice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// EstimateColonization handles POST /api/estimator
// @Summary Colonization estimate
// @Description Estimate grain-spawn colonization time for the given cultivation parameters
// @Tags estimator
// @Accept json
// @Produce json
// @Param request body estimator.Request true "Cultivation parameters"
// @Success 200 {object} object{estimate=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /estimator [post]
func (s *Server) EstimateColonization(c *fiber.Ctx) error {
	var req estimator.Request
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	estimate, err := s.estimator.Estimate(c.Context(), &req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"estimate": estimate})
}
