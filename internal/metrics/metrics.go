package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blankspace_orders_created_total",
		Help: "Orders recorded after payment verification.",
	})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blankspace_webhook_events_total",
		Help: "Verified Stripe webhook events by type.",
	}, []string{"type"})

	PreviewsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blankspace_previews_generated_total",
		Help: "Line-art previews generated successfully.",
	})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blankspace_emails_sent_total",
		Help: "Transactional emails sent by template.",
	}, []string{"template"})

	EmailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blankspace_email_failures_total",
		Help: "Transactional email sends that failed (non-fatal).",
	}, []string{"template"})

	Subscriptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blankspace_subscriptions_total",
		Help: "Email subscribers recorded, duplicates included.",
	})

	BooksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blankspace_books_completed_total",
		Help: "Coloring books generated by the background worker.",
	})

	BooksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blankspace_books_failed_total",
		Help: "Coloring book generations that failed.",
	})
)
