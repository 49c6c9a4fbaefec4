// Package metrics defines the custom Prometheus metrics of vidshare.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; HTTP-level metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidshare"

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts by outcome.
// Label:
//   - result: "ok" or the error kind (e.g. "file_too_large", "upload_timeout", "insert_rejected")
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of video uploads, by result.",
	},
	[]string{"result"},
)

// UploadBytes observes the size of accepted uploads.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_bytes",
		Help:      "Size in bytes of video files written to the object store.",
		Buckets:   prometheus.ExponentialBuckets(1<<20, 2, 8), // 1MiB .. 128MiB
	},
)

// OrphanedObjectsTotal counts objects left in storage because the metadata
// write failed after the binary was stored.
var OrphanedObjectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphaned_objects_total",
		Help:      "Objects stored without a matching metadata record.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// ProfileProvisionTotal counts EnsureProfile outcomes.
// Label:
//   - outcome: "existing", "created", "conflict_resolved", "degraded"
var ProfileProvisionTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_provision_total",
		Help:      "Profile provisioning outcomes.",
	},
	[]string{"outcome"},
)

// ProfileInsertAttempts counts individual profile insert attempts.
// Label:
//   - result: "ok", "exists", "not_visible", "error"
var ProfileInsertAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_insert_attempts_total",
		Help:      "Profile insert attempts made while provisioning, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or the error kind
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// PlaysRecordedTotal counts appended view events.
var PlaysRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plays_recorded_total",
		Help:      "Total number of play events recorded.",
	},
)
