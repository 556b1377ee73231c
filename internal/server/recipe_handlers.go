package server

import (
	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"
	"mushroomservice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetRecipes handles GET /api/recipes
// @Summary List recipes
// @Description List recipes visible to the caller, optionally filtered by search and category
// @Tags recipes
// @Produce json
// @Param search query string false "Case-insensitive title substring"
// @Param category query string false "Category filter (agar, liquid-culture, substrate, other, all)"
// @Success 200 {object} object{recipes=[]models.Recipe}
// @Router /recipes [get]
func (s *Server) GetRecipes(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	recipes, err := s.recipeService.VisibleRecipes(
		c.Context(), actor, c.Query("search"), c.Query("category"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"recipes": recipes})
}

// GetRecipeCategoryCounts handles GET /api/recipes/categories
// @Summary Recipe category counts
// @Description Count the caller's visible recipes per category, plus an "all" total
// @Tags recipes
// @Produce json
// @Success 200 {object} object{counts=map[string]int}
// @Router /recipes/categories [get]
func (s *Server) GetRecipeCategoryCounts(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	counts, err := s.recipeService.CategoryCounts(c.Context(), actor)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"counts": counts})
}

// GetRecipe handles GET /api/recipes/:id
// @Summary Get recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.GetRecipe(c.Context(), middleware.ActorFromCtx(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(recipe)
}

// SubmitRecipe handles POST /api/recipes
// @Summary Submit a recipe
// @Description Submit a cultivation recipe for moderation. Submissions always enter the pending queue.
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body service.SubmitRecipeInput true "Recipe submission"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes [post]
func (s *Server) SubmitRecipe(c *fiber.Ctx) error {
	var in service.SubmitRecipeInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.SubmitRecipe(c.Context(), middleware.ActorFromCtx(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// ApproveRecipe handles POST /api/recipes/:id/approve
// @Summary Approve recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/approve [post]
func (s *Server) ApproveRecipe(c *fiber.Ctx) error {
	return s.moderateRecipe(c, service.ModerationApprove)
}

// RejectRecipe handles POST /api/recipes/:id/reject
// @Summary Reject recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/reject [post]
func (s *Server) RejectRecipe(c *fiber.Ctx) error {
	return s.moderateRecipe(c, service.ModerationReject)
}

// DeleteRecipe handles DELETE /api/recipes/:id
// @Summary Delete recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	return s.moderateRecipe(c, service.ModerationDelete)
}

func (s *Server) moderateRecipe(c *fiber.Ctx, action string) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.ModerateRecipe(
		c.Context(), middleware.ActorFromCtx(c), id, action)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if recipe == nil {
		return c.JSON(fiber.Map{"message": "Recipe deleted"})
	}
	return c.JSON(recipe)
}
