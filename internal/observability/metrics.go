package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RendersTotal counts populated documents by layout and entry point.
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proposal_pages",
		Name:      "renders_total",
		Help:      "Documents populated from a proposal payload.",
	}, []string{"template", "mode"})

	// AnchorWarningsTotal counts payload fields whose anchor was missing.
	AnchorWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proposal_pages",
		Name:      "anchor_warnings_total",
		Help:      "Payload fields skipped because the layout anchor was not found.",
	}, []string{"template"})

	// RevealsTotal counts reveals by what triggered them: data or fallback.
	RevealsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proposal_pages",
		Name:      "reveals_total",
		Help:      "Page reveals by trigger.",
	}, []string{"trigger"})

	// LatePayloadsDropped counts payloads arriving after a fallback reveal.
	LatePayloadsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "proposal_pages",
		Name:      "late_payloads_dropped_total",
		Help:      "Payloads dropped because the page already revealed on fallback.",
	})

	// PrunedFieldsTotal counts payload fields removed during boundary normalization.
	PrunedFieldsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "proposal_pages",
		Name:      "payload_pruned_fields_total",
		Help:      "Payload fields pruned because they failed schema validation.",
	})

	// ActiveSessions is the number of live preview sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "proposal_pages",
		Name:      "active_sessions",
		Help:      "Live preview sessions currently held in memory.",
	})

	// HTTPRequestDuration tracks request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "proposal_pages",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// AssistSectionsTotal counts AI-drafted sections by outcome: generated or fallback.
	AssistSectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proposal_pages",
		Name:      "assist_sections_total",
		Help:      "Sections drafted by the assistant.",
	}, []string{"section", "outcome"})

	// WebhookEventsTotal counts billing webhook events by type and result.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proposal_pages",
		Name:      "webhook_events_total",
		Help:      "Billing webhook events received.",
	}, []string{"type", "result"})
)
