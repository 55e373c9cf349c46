package metrics

import (
	"errors"
	"sync"

	"labtrack/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "labtrack"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	grpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "gRPC requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	repositoryOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_operations_total",
			Help:      "Repository operations by entity, operation and outcome.",
		},
		[]string{"entity", "op", "outcome"},
	)

	movementsRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_registered_total",
			Help:      "Registered asset movements by type.",
		},
		[]string{"tipo"},
	)

	// EventsPublished is fed by the event bus subscriber.
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events published by type.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, grpcRequests, repositoryOps, movementsRegistered, EventsPublished)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncGRPC(method, code string) {
	grpcRequests.WithLabelValues(method, code).Inc()
}

// ObserveRepository counts one repository call, classifying err into an outcome label.
func ObserveRepository(entity, op string, err error) {
	repositoryOps.WithLabelValues(entity, op, Outcome(err)).Inc()
}

func IncMovement(tipo models.MovementType) {
	movementsRegistered.WithLabelValues(string(tipo)).Inc()
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrValidation):
		return "invalid"
	case errors.Is(err, models.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
