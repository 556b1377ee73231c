package server

import (
	"io"

	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"
	"mushroomservice/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultPostPageSize = 20

// GetPosts handles GET /api/posts
// @Summary List blog posts
// @Description List posts newest-first. Admins also see unpublished drafts.
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{posts=[]models.BlogPost}
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, defaultPostPageSize)

	posts, err := s.postService.ListPosts(
		c.Context(), middleware.ActorFromCtx(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:slug
// @Summary Get blog post
// @Description Get one post by slug. Drafts resolve only for admins.
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{slug} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(
		c.Context(), middleware.ActorFromCtx(c), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create blog post
// @Description Create an unpublished draft. The slug is derived from the title when absent.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PostInput true "Post content"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in service.PostInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), middleware.ActorFromCtx(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update blog post
// @Description Replace a post's editable fields. Publication state is untouched.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body service.PostInput true "Post content"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.PostInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), middleware.ActorFromCtx(c), id, in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// PublishPost handles POST /api/posts/:id/publish
// @Summary Publish blog post
// @Description Mark a draft published and stamp the publication time. Re-publishing is a no-op.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/publish [post]
func (s *Server) PublishPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.PublishPost(c.Context(), middleware.ActorFromCtx(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete blog post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), middleware.ActorFromCtx(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// UploadPostImage handles POST /api/posts/:id/image
// @Summary Upload featured image
// @Description Upload a featured image for a post. The image is resized and stored as WebP.
// @Tags posts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param image formData file true "Image file (JPEG, PNG, GIF or WebP)"
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/image [post]
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}

	url, err := s.imageService.StoreFeaturedImage(content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	post, err := s.postService.SetFeaturedImage(
		c.Context(), middleware.ActorFromCtx(c), id, url)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}
