package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "posbon_events_processed_total",
	Help: "Number of inbound chat events processed",
}, []string{"type"})

var EventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "posbon_event_duration_sec",
	Help: "Total duration of moderation event processing",
}, []string{"type"})

var ActionsTaken = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "posbon_moderation_actions_total",
	Help: "Number of moderation actions recorded",
}, []string{"action", "reason"})

var PunishmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "posbon_punishment_failures_total",
	Help: "Number of punishments the platform did not confirm",
}, []string{"action"})

var CaptchaOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "posbon_captcha_outcomes_total",
	Help: "Number of captcha challenges by outcome",
}, []string{"outcome"})

var StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "posbon_store_errors_total",
	Help: "Number of counter or record store failures",
}, []string{"store"})

var AuditDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "posbon_audit_dropped_total",
	Help: "Number of audit events dropped because the write queue was full",
})
