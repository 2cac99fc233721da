package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gtaskbot/internal/service"
)

func init() {
	register(storeRequestsTotal, storeLatencySeconds)
}

var (
	storeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtaskbot_store_requests_total",
			Help: "Task store round trips by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	storeLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gtaskbot_store_request_duration_seconds",
			Help:    "Task store round trip latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"op"},
	)
)

// InstrumentStore wraps svc so every call is counted and timed.
func InstrumentStore(svc service.Service) service.Service {
	return &instrumentedStore{next: svc}
}

type instrumentedStore struct {
	next service.Service
}

func (s *instrumentedStore) ListOpenTasks(ctx context.Context) ([]service.Task, error) {
	start := time.Now()
	tasks, err := s.next.ListOpenTasks(ctx)
	observe("list", start, err)
	return tasks, err
}

func (s *instrumentedStore) CreateTask(ctx context.Context, title string) (service.Task, error) {
	start := time.Now()
	task, err := s.next.CreateTask(ctx, title)
	observe("insert", start, err)
	return task, err
}

func (s *instrumentedStore) DeleteTask(ctx context.Context, taskID string) error {
	start := time.Now()
	err := s.next.DeleteTask(ctx, taskID)
	observe("delete", start, err)
	return err
}

func observe(op string, start time.Time, err error) {
	storeLatencySeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	storeRequestsTotal.WithLabelValues(op, outcome).Inc()
}
