// Package metrics defines and registers all custom Prometheus metrics for
// the user service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userservice"

// UsersCreatedTotal counts successful signups.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// CacheLookupsTotal counts single-user cache lookups.
// Label:
//   - result: "hit" (served from cache) or "miss" (loaded from the store)
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of user cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// EventsPublishedTotal counts lifecycle events acknowledged by the broker.
// Label:
//   - event_type: USER_CREATED, USER_UPDATED, or USER_DELETED
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of user lifecycle events successfully published.",
	},
	[]string{"event_type"},
)

// EventsPublishFailedTotal counts publishes that timed out or errored.
// These are swallowed by the service, so this counter is the only signal.
var EventsPublishFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_publish_failed_total",
		Help:      "Total number of user lifecycle events that failed to publish.",
	},
	[]string{"event_type"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)
