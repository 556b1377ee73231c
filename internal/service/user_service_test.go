package service

import (
	"context"
	"testing"

	"mushroomservice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	var stored *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 7
		stored = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    " grower@example.com ",
		Password: "SecurePass12!@",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "grower@example.com", stored.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("SecurePass12!@")))
}

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "SecurePass12!@"})
	assertValidationError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "weak"})
	assertValidationError(t, err)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		return &models.User{ID: 1, Email: email}, nil
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Password: "SecurePass12!@",
	})
	assertValidationError(t, err)
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == "grower@example.com" {
			return &models.User{ID: 7, Email: email, Password: string(hashed)}, nil
		}
		return nil, nil
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "grower@example.com", "SecurePass12!@")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)

	_, err = svc.Authenticate(ctx, "grower@example.com", "wrong-password")
	assertUnauthorizedError(t, err)

	_, err = svc.Authenticate(ctx, "ghost@example.com", "SecurePass12!@")
	assertUnauthorizedError(t, err)
}
