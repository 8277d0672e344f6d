// Package metrics defines and registers the custom Prometheus metrics of the
// auth API. HTTP request metrics come from echoprometheus; this package holds
// the domain counters only.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shieldagency"

// LoginAttemptsTotal counts login attempts.
// Labels:
//   - surface: "admin" or "user" (the endpoint called)
//   - result: "success", "invalid_credentials", "throttled", "bad_request" or "error"
//   - role: role of the authenticated principal, empty unless result is "success"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by surface, result and issued role.",
	},
	[]string{"surface", "result", "role"},
)

// TokenChecksTotal counts route guard decisions.
// Label:
//   - result: "ok", "missing", "invalid" or "forbidden"
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of bearer token checks performed by route guards.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts user registrations.
// Label:
//   - result: "created", "duplicate", "bad_request" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user registration attempts, by result.",
	},
	[]string{"result"},
)

// PasswordChangesTotal counts admin password change attempts.
// Label:
//   - result: "changed", "incorrect_current", "bad_request", "not_found" or "error"
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of admin password change attempts, by result.",
	},
	[]string{"result"},
)
