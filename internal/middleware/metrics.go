package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mushroomservice_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ActiveFeedSubscribers is the gauge of live feed subscribers.
	ActiveFeedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mushroomservice_feed_subscribers",
		Help: "Number of active live feed subscribers",
	})

	// FeedSnapshotsTotal counts feed snapshots broadcast by trigger kind.
	FeedSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mushroomservice_feed_snapshots_total",
		Help: "Total feed snapshots broadcast by trigger",
	}, []string{"trigger"})

	// FeedBackpressureDrops counts snapshots dropped because a subscriber
	// channel was full.
	FeedBackpressureDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mushroomservice_feed_backpressure_drops_total",
		Help: "Total feed snapshots dropped due to slow subscribers",
	})

	// ModerationActionsTotal counts recipe moderation actions by outcome.
	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mushroomservice_moderation_actions_total",
		Help: "Total recipe moderation actions by action",
	}, []string{"action"})

	// EstimatorRequestsTotal counts colonization estimator calls by result.
	EstimatorRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mushroomservice_estimator_requests_total",
		Help: "Total colonization estimator requests by result",
	}, []string{"result"})
)

// InitMetrics creates the fiberprometheus middleware for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wires the fiberprometheus middleware into the request chain.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
