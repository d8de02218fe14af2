package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"blankspace-backend/internal/config"
	"blankspace-backend/internal/models"
	"blankspace-backend/internal/stripe"
)

// CheckoutSessionCreator opens a hosted payment session.
type CheckoutSessionCreator interface {
	CreateCheckoutSession(params stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type CheckoutHandler struct {
	cfg      *config.Config
	payments CheckoutSessionCreator
}

func NewCheckoutHandler(cfg *config.Config, payments CheckoutSessionCreator) *CheckoutHandler {
	return &CheckoutHandler{cfg: cfg, payments: payments}
}

// CreateSession godoc
// @Summary     Create a checkout session
// @Description Creates a hosted payment session for the selected tier, or returns a synthetic demo session id when payments are unconfigured.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Param       request body models.CheckoutSessionRequest true "Checkout details"
// @Success     200 {object} models.CheckoutSessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /create-checkout-session [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req models.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Tier == "" || req.Email == "" || req.ImageCount == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing required fields"})
		return
	}

	if h.cfg.DemoPayments {
		c.JSON(http.StatusOK, models.CheckoutSessionResponse{
			SessionID: fmt.Sprintf("demo_session_%d", time.Now().UnixMilli()),
			DemoMode:  true,
		})
		return
	}

	var unitAmount int
	var productName string
	switch req.Tier {
	case models.TierDigital:
		unitAmount = h.cfg.PriceDigitalCents
		productName = "Blank Space Coloring Book (Digital Download)"
	case models.TierPrinted:
		unitAmount = h.cfg.PricePrintedCents
		productName = "Blank Space Coloring Book (Printed Edition)"
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid tier"})
		return
	}

	imagesJSON, _ := json.Marshal(req.Images)
	session, err := h.payments.CreateCheckoutSession(stripe.CheckoutSessionParams{
		CustomerEmail: req.Email,
		SuccessURL:    h.cfg.AppBaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     h.cfg.AppBaseURL + "/checkout",
		ProductName:   productName,
		UnitAmount:    unitAmount,
		Currency:      "usd",
		Metadata: map[string]string{
			"tier":       req.Tier,
			"imageCount": strconv.Itoa(req.ImageCount),
			"images":     string(imagesJSON),
		},
	})
	if err != nil {
		log.Printf("Checkout session creation error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, models.CheckoutSessionResponse{SessionID: session.ID})
}
