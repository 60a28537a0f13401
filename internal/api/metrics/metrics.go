// Package metrics defines and registers all custom Prometheus metrics
// for the coaching API. It is the single source of truth for metric
// names, labels, and help strings; metrics register themselves with
// the default registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "habitcoach"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// HabitSavesTotal counts habit entry writes.
// Label:
//   - writer: "self" when the owner saved, "admin" for edits on behalf
var HabitSavesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "habit_saves_total",
		Help:      "Total number of habit entries saved, by writer kind.",
	},
	[]string{"writer"},
)

// BloodworkUploadsTotal counts accepted bloodwork uploads.
var BloodworkUploadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bloodwork_uploads_total",
		Help:      "Total number of bloodwork documents uploaded.",
	},
)

// SyncRequestsTotal counts incremental sync deltas served.
var SyncRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_requests_total",
		Help:      "Total number of sync deltas computed.",
	},
)

// VoiceExtractionsTotal counts voice extraction requests.
// Label:
//   - path: "ai" (language service), "fallback" (keyword matching) or
//     "cache" (memoized result)
var VoiceExtractionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "voice_extractions_total",
		Help:      "Total number of voice extraction requests, by resolution path.",
	},
	[]string{"path"},
)
