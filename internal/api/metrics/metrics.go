// Package metrics defines and registers all custom Prometheus metrics for
// the CRM API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the HTTP layer only needs to expose the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts credential verification attempts.
// Label:
//   - result: "success" or "denied" (all denial reasons collapse into one)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts sign-up attempts.
// Label:
//   - result: "created", "invalid", "duplicate", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// SessionsRefreshedTotal counts sliding-expiry token reissues.
var SessionsRefreshedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_refreshed_total",
		Help:      "Total number of session tokens reissued past the refresh window.",
	},
)

// GuardRedirectsTotal counts route-guard redirects.
// Label:
//   - reason: "signin", "already_authenticated", "account_disabled", "access_denied"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of route-guard redirects, by reason.",
	},
	[]string{"reason"},
)

// ── Lead metrics ──────────────────────────────────────────────────────────────

// LeadsReceivedTotal counts accepted lead submissions.
// Label:
//   - source: the marketing source reported by the sender
var LeadsReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leads_received_total",
		Help:      "Total number of lead submissions accepted for processing.",
	},
	[]string{"source"},
)

// LeadQueueDepth tracks the current number of leads waiting per worker.
// Label:
//   - worker_id: numeric worker index
var LeadQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lead_queue_depth",
		Help:      "Current number of leads pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
