// Package estimator produces AI colonization time estimates for mushroom
// cultivation parameters.
package estimator

import (
	"context"
	"fmt"
	"strings"

	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"
	"mushroomservice/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const systemPrompt = "You are a mycology expert specializing in mushroom cultivation. " +
	"Provide accurate colonization time estimates based on given parameters."

// Request carries the cultivation parameters for one estimate.
type Request struct {
	Species         string  `json:"species"`
	Substrate       string  `json:"substrate"`
	TemperatureF    int     `json:"temperature_f"`
	HumidityPct     int     `json:"humidity_pct"`
	ContainerQuarts float64 `json:"container_quarts"`
	GrainType       string  `json:"grain_type"`
}

// Validate checks the request against the ranges the cultivation form
// enforces.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Species) == "" {
		return models.NewValidationError("species is required")
	}
	if strings.TrimSpace(r.Substrate) == "" {
		return models.NewValidationError("substrate is required")
	}
	if r.TemperatureF < 50 || r.TemperatureF > 90 {
		return models.NewValidationError("temperature must be between 50 and 90 degrees Fahrenheit")
	}
	if r.HumidityPct < 0 || r.HumidityPct > 100 {
		return models.NewValidationError("humidity must be between 0 and 100 percent")
	}
	if r.ContainerQuarts < 0.5 {
		return models.NewValidationError("container size must be at least 0.5 quarts")
	}
	return nil
}

// Prompt renders the request as the completion prompt.
func (r *Request) Prompt() string {
	return fmt.Sprintf(`Please estimate the colonization time for mushroom cultivation with the following parameters:
- Species: %s
- Substrate: %s
- Temperature: %d°F
- Humidity: %d%%
- Container Size: %g quarts
- Grain Type: %s

Provide a detailed estimate with a range and explanation of factors affecting colonization time.
Format the response in a clear, concise way.`,
		r.Species, r.Substrate, r.TemperatureF, r.HumidityPct, r.ContainerQuarts, r.GrainType)
}

// CompletionClient abstracts the model backend so tests can stub it.
type CompletionClient interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Estimator turns cultivation parameters into a colonization time estimate
// via a single model call. There is no retry: a failed call surfaces to the
// caller and the user resubmits.
type Estimator struct {
	client CompletionClient
}

// New creates an Estimator backed by the given completion client.
func New(client CompletionClient) *Estimator {
	return &Estimator{client: client}
}

// Estimate validates the request and performs one completion call.
func (e *Estimator) Estimate(ctx context.Context, req *Request) (string, error) {
	if err := req.Validate(); err != nil {
		middleware.EstimatorRequestsTotal.WithLabelValues("invalid").Inc()
		return "", err
	}
	if e.client == nil {
		middleware.EstimatorRequestsTotal.WithLabelValues("unconfigured").Inc()
		return "", models.NewExternalError("estimator", fmt.Errorf("completion backend is not configured"))
	}

	span, ctx := observability.NewSpan(ctx, "estimator.complete")
	span.AddAttributes(
		attribute.String("estimator.species", req.Species),
		attribute.String("estimator.substrate", req.Substrate),
	)
	text, err := e.client.Complete(ctx, systemPrompt, req.Prompt())
	span.SetError(err)
	span.End()
	if err != nil {
		middleware.EstimatorRequestsTotal.WithLabelValues("error").Inc()
		return "", models.NewExternalError("estimator", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		middleware.EstimatorRequestsTotal.WithLabelValues("empty").Inc()
		return "", models.NewExternalError("estimator", fmt.Errorf("model returned an empty estimate"))
	}

	middleware.EstimatorRequestsTotal.WithLabelValues("ok").Inc()
	return text, nil
}
