package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"mushroomservice/internal/models"
	"mushroomservice/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DevContent fills the database with fake users, a few published blog posts
// and comment threads. Development use only.
func (s *Seeder) DevContent(ctx context.Context, numUsers int) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hash, err := bcrypt.GenerateFromPassword([]byte("Devpassword#123"), bcrypt.MinCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hash),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil
	}

	author := users[0]
	titles := []string{
		"Growing Oyster Mushrooms on Coffee Grounds",
		"A Beginner's Guide to Agar Work",
		"Why Your Grain Jars Keep Stalling",
	}
	for _, title := range titles {
		post := &models.BlogPost{
			Title:    title,
			Slug:     validation.Slugify(title),
			Content:  gofakeit.Paragraph(3, 4, 12, "\n\n"),
			Excerpt:  gofakeit.Sentence(12),
			AuthorID: author.ID,
		}
		if err := s.postRepo.Create(ctx, post); err != nil {
			return err
		}
		if err := s.postRepo.MarkPublished(ctx, post.ID, time.Now().UTC()); err != nil {
			return err
		}

		for i := 0; i < 2+r.Intn(4); i++ {
			commenter := users[r.Intn(len(users))]
			comment := &models.Comment{
				PostID:     post.ID,
				UserID:     commenter.ID,
				Content:    gofakeit.Sentence(8 + r.Intn(10)),
				IsApproved: true,
			}
			if err := s.commentRepo.Create(ctx, comment); err != nil {
				return err
			}
		}
	}

	// A handful of pending submissions so the moderation queue is not
	// empty in dev.
	for i := 0; i < 3; i++ {
		submitter := users[r.Intn(len(users))]
		recipe := &models.Recipe{
			Title:       gofakeit.Sentence(3),
			Category:    models.RecipeCategories[r.Intn(len(models.RecipeCategories))],
			Description: gofakeit.Sentence(10),
			Ingredients: models.StringList{gofakeit.Word(), gofakeit.Word()},
			Steps:       models.StringList{gofakeit.Sentence(6), gofakeit.Sentence(6)},
			Status:      models.RecipeStatusPending,
			IsCustom:    true,
			UserID:      &submitter.ID,
		}
		if err := s.recipeRepo.Create(ctx, recipe); err != nil {
			return err
		}
	}

	return nil
}
