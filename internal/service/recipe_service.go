package service

import (
	"context"
	"strings"

	"mushroomservice/internal/identity"
	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"
	"mushroomservice/internal/repository"
)

// Moderation actions.
const (
	ModerationApprove = "approve"
	ModerationReject  = "reject"
	ModerationDelete  = "delete"
)

// CategoryAll is the pseudo-category meaning "no category filter".
const CategoryAll = "all"

type RecipeService struct {
	recipeRepo repository.RecipeRepository
	policy     identity.Policy
	events     ContentEvents
}

type SubmitRecipeInput struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	policy identity.Policy,
	events ContentEvents,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		policy:     policy,
		events:     events,
	}
}

// SubmitRecipe stores a new submission. Whatever the caller sends, the
// stored row is pending and marked custom; nobody submits straight into the
// approved set.
func (s *RecipeService) SubmitRecipe(
	ctx context.Context, actor identity.Actor, in SubmitRecipeInput,
) (*models.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if !models.ValidRecipeCategory(in.Category) {
		return nil, models.NewValidationError("Category must be one of: agar, liquid-culture, substrate, other")
	}
	ingredients := trimNonEmpty(in.Ingredients)
	if len(ingredients) == 0 {
		return nil, models.NewValidationError("At least one ingredient is required")
	}
	steps := trimNonEmpty(in.Steps)
	if len(steps) == 0 {
		return nil, models.NewValidationError("At least one step is required")
	}

	recipe := &models.Recipe{
		Title:       title,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Ingredients: ingredients,
		Steps:       steps,
		Status:      models.RecipeStatusPending,
		IsCustom:    true,
	}
	if actor.Authenticated() {
		uid := actor.UserID
		recipe.UserID = &uid
	}

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, models.NewExternalError("store", err)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "recipe_submitted")
	}
	return recipe, nil
}

// ModerateRecipe applies an admin decision. Approve and reject write only
// the status column; delete removes the row. Re-applying the current status
// is a no-op; flipping between approved and rejected is not allowed.
func (s *RecipeService) ModerateRecipe(
	ctx context.Context, actor identity.Actor, id uint, action string,
) (*models.Recipe, error) {
	if !s.policy.IsAdmin(actor) {
		return nil, models.NewUnauthorizedError("Administrator access required")
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Recipe", id)
	}

	switch action {
	case ModerationApprove, ModerationReject:
		target := models.RecipeStatusApproved
		if action == ModerationReject {
			target = models.RecipeStatusRejected
		}
		if recipe.Status == target {
			return recipe, nil
		}
		if recipe.Status != models.RecipeStatusPending {
			return nil, models.NewValidationError("Recipe has already been " + recipe.Status)
		}
		if err := s.recipeRepo.UpdateStatus(ctx, id, target); err != nil {
			return nil, storeError(err, "Recipe", id)
		}
		recipe.Status = target

	case ModerationDelete:
		if err := s.recipeRepo.Delete(ctx, id); err != nil {
			return nil, storeError(err, "Recipe", id)
		}
		recipe = nil

	default:
		return nil, models.NewValidationError("Unknown moderation action: " + action)
	}

	middleware.ModerationActionsTotal.WithLabelValues(action).Inc()
	if s.events != nil {
		s.events.ContentChanged(ctx, "recipe_"+action)
	}
	return recipe, nil
}

// VisibleRecipes lists the recipes the actor may see, optionally narrowed
// by a case-insensitive title search and a category. Admins see every
// status; everyone else sees approved recipes only.
func (s *RecipeService) VisibleRecipes(
	ctx context.Context, actor identity.Actor, search, category string,
) ([]*models.Recipe, error) {
	recipes, err := s.visible(ctx, actor)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]*models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if category != "" && category != CategoryAll && r.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Title), search) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

// CategoryCounts tallies the actor's visible recipes per category, plus an
// "all" bucket holding the total.
func (s *RecipeService) CategoryCounts(
	ctx context.Context, actor identity.Actor,
) (map[string]int, error) {
	recipes, err := s.visible(ctx, actor)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{CategoryAll: len(recipes)}
	for _, c := range models.RecipeCategories {
		counts[c] = 0
	}
	for _, r := range recipes {
		counts[r.Category]++
	}
	return counts, nil
}

// GetRecipe returns one recipe if the actor may see it.
func (s *RecipeService) GetRecipe(
	ctx context.Context, actor identity.Actor, id uint,
) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Recipe", id)
	}
	if recipe.Status != models.RecipeStatusApproved && !s.policy.IsAdmin(actor) {
		return nil, models.NewNotFoundError("Recipe", id)
	}
	return recipe, nil
}

func (s *RecipeService) visible(ctx context.Context, actor identity.Actor) ([]*models.Recipe, error) {
	status := models.RecipeStatusApproved
	if s.policy.IsAdmin(actor) {
		status = ""
	}
	recipes, err := s.recipeRepo.List(ctx, status)
	if err != nil {
		return nil, models.NewExternalError("store", err)
	}
	return recipes, nil
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
