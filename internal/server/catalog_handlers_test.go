package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"mushroomservice/internal/estimator"
	"mushroomservice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandlers(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.db.Create(&models.Product{
		SKU: "blue-oyster-fresh", Name: "Fresh Blue Oyster", Price: 12.99,
		WeightGrams: 454, MaxQuantity: 10, Section: models.ProductSectionFresh,
	}).Error)
	require.NoError(t, s.db.Create(&models.Product{
		SKU: "coco-coir-brick", Name: "Coco Coir Brick", Price: 4.99,
		WeightGrams: 1340, MaxQuantity: 8, Section: models.ProductSectionSupplies,
	}).Error)

	app := fiber.New()
	app.Get("/products", s.GetProducts)
	app.Get("/products/:sku", s.GetProduct)

	t.Run("list all", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/products", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Products []models.Product `json:"products"`
		}
		decodeBody(t, resp, &body)
		assert.Len(t, body.Products, 2)
	})

	t.Run("section filter", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/products?section=fresh", nil))
		require.NoError(t, err)

		var body struct {
			Products []models.Product `json:"products"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Products, 1)
		assert.Equal(t, "blue-oyster-fresh", body.Products[0].SKU)
	})

	t.Run("invalid section", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/products?section=digital", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("by sku", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/products/coco-coir-brick", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var product models.Product
		decodeBody(t, resp, &product)
		assert.Equal(t, 4.99, product.Price)
	})

	t.Run("unknown sku", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/products/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPriceHandlers(t *testing.T) {
	s := newTestServer(t)

	t.Run("list works without redis", func(t *testing.T) {
		app := fiber.New()
		app.Get("/prices", s.GetPrices)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/prices", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Prices []models.MarketPrice `json:"prices"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Prices)
	})

	t.Run("refresh is admin only", func(t *testing.T) {
		app := fiber.New()
		app.Use(asActor(testMember))
		app.Post("/prices/refresh", s.RefreshPrices)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/prices/refresh", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

type stubCompletions struct {
	text string
	err  error
}

func (s *stubCompletions) Complete(context.Context, string, string) (string, error) {
	return s.text, s.err
}

func TestEstimatorHandler(t *testing.T) {
	s := newTestServer(t)
	app := fiber.New()
	app.Post("/estimator", s.EstimateColonization)

	valid := map[string]interface{}{
		"species":          "Blue Oyster",
		"substrate":        "hardwood sawdust",
		"temperature_f":    72,
		"humidity_pct":     90,
		"container_quarts": 2.0,
		"grain_type":       "rye",
	}

	t.Run("unconfigured client responds with external error", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/estimator", valid))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("returns the completion text", func(t *testing.T) {
		s.estimator = estimator.New(&stubCompletions{text: "Expect 14-21 days."})

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/estimator", valid))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Estimate string `json:"estimate"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "Expect 14-21 days.", body.Estimate)
	})

	t.Run("provider failure is not retried", func(t *testing.T) {
		s.estimator = estimator.New(&stubCompletions{err: errors.New("quota exceeded")})

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/estimator", valid))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("out-of-range temperature", func(t *testing.T) {
		bad := map[string]interface{}{}
		for k, v := range valid {
			bad[k] = v
		}
		bad["temperature_f"] = 120

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/estimator", bad))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestFeedUpgradeRequired(t *testing.T) {
	s := newTestServer(t)
	app := fiber.New()
	app.Get("/ws/feed", s.FeedUpgradeRequired, s.FeedWebSocketHandler())

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/ws/feed", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
