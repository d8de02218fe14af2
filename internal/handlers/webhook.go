package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"blankspace-backend/internal/config"
	"blankspace-backend/internal/metrics"
	"blankspace-backend/internal/models"
	"blankspace-backend/internal/stripe"
)

// WebhookStore applies payment-event status transitions. Both updates are
// forward-only no-ops when the target order is already terminal.
type WebhookStore interface {
	MarkOrderPaid(sessionID, paymentIntentID string) (int64, error)
	MarkOrderFailed(paymentIntentID string) (int64, error)
}

type WebhookHandler struct {
	cfg   *config.Config
	store WebhookStore
}

func NewWebhookHandler(cfg *config.Config, store WebhookStore) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, store: store}
}

// HandleWebhook godoc
// @Summary     Stripe webhook endpoint
// @Description Receives payment-event notifications. The signature is verified against the shared endpoint secret; database failures are logged, not surfaced, so Stripe does not retry-storm.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Stripe-Signature header string true "Stripe signature header"
// @Success     200 {object} models.WebhookResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /webhook/stripe [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read request body"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No signature"})
		return
	}

	event, err := stripe.ConstructEvent(body, sig, h.cfg.StripeWebhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid signature"})
		return
	}

	metrics.WebhookEvents.WithLabelValues(event.Type).Inc()

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			log.Printf("Failed to parse checkout session: %v", err)
			break
		}
		if h.store == nil {
			log.Printf("Webhook received but database not available, session %s", session.ID)
			break
		}
		n, err := h.store.MarkOrderPaid(session.ID, session.PaymentIntent)
		if err != nil {
			log.Printf("Failed to update order status: %v", err)
		} else if n == 0 {
			// Either the order row does not exist yet (webhook raced the
			// order recorder) or the order already left "processing".
			log.Printf("No order matched session %s", session.ID)
		}

	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Object, &intent); err == nil {
			log.Printf("Payment succeeded: %s", intent.ID)
		}

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			log.Printf("Failed to parse payment intent: %v", err)
			break
		}
		if h.store == nil {
			log.Printf("Webhook received but database not available, intent %s", intent.ID)
			break
		}
		if _, err := h.store.MarkOrderFailed(intent.ID); err != nil {
			log.Printf("Failed to update order status: %v", err)
		}

	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	c.JSON(http.StatusOK, models.WebhookResponse{Received: true})
}
