package server

import (
	"net/http"
	"testing"

	"mushroomservice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	s := newTestServer(t)
	app := fiber.New()
	app.Post("/signup", s.Signup)

	t.Run("creates account and issues token", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
			"email":    "grower@example.com",
			"password": "SporePrint#2024",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "grower@example.com", body.User.Email)

		// Token must carry the subject and email claims the actor
		// resolver reads.
		token, err := jwt.Parse(body.Token, func(*jwt.Token) (interface{}, error) {
			return []byte("test_secret"), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "1", claims["sub"])
		assert.Equal(t, "grower@example.com", claims["email"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
			"email":    "grower@example.com",
			"password": "SporePrint#2024",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("weak password", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
			"email":    "other@example.com",
			"password": "short",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	app := fiber.New()
	app.Post("/signup", s.Signup)
	app.Post("/login", s.Login)

	signup := jsonRequest(t, http.MethodPost, "/signup", map[string]string{
		"email":    "grower@example.com",
		"password": "SporePrint#2024",
	})
	resp, err := app.Test(signup)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{"valid credentials", "grower@example.com", "SporePrint#2024", http.StatusOK},
		{"wrong password", "grower@example.com", "WrongPassword#1", http.StatusUnauthorized},
		{"unknown email", "nobody@example.com", "SporePrint#2024", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.db.Create(&models.User{Email: testAdminEmail, Password: "x"}).Error)

	app := fiber.New()
	app.Get("/me", asActor(testAdmin), s.Me)

	req := jsonRequest(t, http.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User    models.User `json:"user"`
		IsAdmin bool        `json:"is_admin"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, testAdminEmail, body.User.Email)
	assert.True(t, body.IsAdmin)
}
