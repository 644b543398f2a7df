package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arbor"

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Executions    prometheus.Counter
	LeavesVisited prometheus.Counter
	TreeChanges   *prometheus.CounterVec
	Notifications prometheus.Counter
	Deliveries    prometheus.Counter
	Subscribers   prometheus.Gauge
	Transitions   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration (useful when wiring a custom registry later).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Executions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_executions_total",
			Help:      "Total number of tree executions",
		}),
		LeavesVisited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_leaves_visited_total",
			Help:      "Total number of leaves visited across executions",
		}),
		TreeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_changes_total",
			Help:      "Structural changes to the tree, by operation and outcome",
		}, []string{"op", "result"}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of messages broadcast",
		}),
		Deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Total number of subscriber deliveries",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Current number of subscriptions",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "State machine inputs handled, by from/to state, input and acceptance",
		}, []string{"from", "to", "input", "accepted"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.Executions, m.LeavesVisited, m.TreeChanges,
		m.Notifications, m.Deliveries, m.Subscribers, m.Transitions,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecute: func(_ context.Context, e *domain.TreeEvent) {
			m.Executions.Inc()
			m.LeavesVisited.Add(float64(len(e.Labels)))
		},
		OnTreeChange: func(_ context.Context, e *domain.TreeEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.TreeChanges.WithLabelValues(string(e.Type), result).Inc()
		},
		OnNotify: func(_ context.Context, e *domain.NotifyEvent) {
			m.Notifications.Inc()
			m.Deliveries.Add(float64(e.Delivered))
		},
		OnSubscription: func(_ context.Context, e *domain.SubscriptionEvent) {
			m.Subscribers.Set(float64(e.Subscribers))
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.From, e.To, e.Input, strconv.FormatBool(e.Accepted)).Inc()
		},
	}
}
