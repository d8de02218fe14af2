package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blankspace-backend/internal/config"
	"blankspace-backend/internal/metrics"
	"blankspace-backend/internal/models"
	"blankspace-backend/internal/resend"
	"blankspace-backend/internal/stripe"
	"blankspace-backend/internal/supabase"
)

// CheckoutSessionRetriever looks up a payment session so its status can be
// verified before an order is recorded.
type CheckoutSessionRetriever interface {
	RetrieveCheckoutSession(sessionID string) (*stripe.CheckoutSession, error)
}

// OrderStore persists orders.
type OrderStore interface {
	CreateOrder(order *models.Order) (*models.Order, error)
	GetOrder(orderID string) (*models.Order, error)
	GetOrderBySessionID(sessionID string) (*models.Order, error)
}

// EmailSender delivers transactional email; failures are never fatal to the
// surrounding operation.
type EmailSender interface {
	SendEmail(to, subject, html string) error
}

type OrdersHandler struct {
	cfg      *config.Config
	payments CheckoutSessionRetriever
	store    OrderStore
	mailer   EmailSender
}

func NewOrdersHandler(cfg *config.Config, payments CheckoutSessionRetriever, store OrderStore, mailer EmailSender) *OrdersHandler {
	return &OrdersHandler{cfg: cfg, payments: payments, store: store, mailer: mailer}
}

// Create godoc
// @Summary     Record a paid order
// @Description Verifies the checkout session is paid, writes the order record, and sends a confirmation email. Creation is idempotent per checkout session.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Completed session details"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Session ID required"})
		return
	}

	if h.cfg.DemoPayments || h.payments == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "payment service not available"})
		return
	}
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	session, err := h.payments.RetrieveCheckoutSession(req.SessionID)
	if err != nil {
		log.Printf("Order creation error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to process order"})
		return
	}

	if session.PaymentStatus != "paid" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Payment not completed"})
		return
	}

	orderID := fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), randomSuffix())
	imageJSON, _ := json.Marshal(req.ImageData)
	if req.ImageData == nil {
		imageJSON = []byte("[]")
	}

	created, err := h.store.CreateOrder(&models.Order{
		ID:              orderID,
		UserEmail:       session.CustomerEmail,
		Tier:            req.Tier,
		Status:          models.OrderStatusProcessing,
		ImageData:       imageJSON,
		StripeSessionID: req.SessionID,
	})
	if err != nil {
		if errors.Is(err, supabase.ErrDuplicateOrder) {
			// Retried submission for the same checkout session: report the
			// existing order instead of failing.
			existing, lookupErr := h.store.GetOrderBySessionID(req.SessionID)
			if lookupErr != nil {
				log.Printf("Order lookup error: %v", lookupErr)
				c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create order"})
				return
			}
			c.JSON(http.StatusOK, models.OrderResponse{
				Success: true,
				OrderID: existing.ID,
				Message: "Order already recorded",
			})
			return
		}
		log.Printf("Order creation error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create order"})
		return
	}

	metrics.OrdersCreated.Inc()

	subject, html := resend.OrderConfirmationEmail(created.ID, req.Tier, len(req.ImageData))
	if err := h.mailer.SendEmail(session.CustomerEmail, subject, html); err != nil {
		log.Printf("Email sending error: %v", err)
		metrics.EmailFailures.WithLabelValues("order_confirmation").Inc()
	} else {
		metrics.EmailsSent.WithLabelValues("order_confirmation").Inc()
	}

	c.JSON(http.StatusOK, models.OrderResponse{
		Success: true,
		OrderID: created.ID,
		Message: "Order created successfully",
	})
}

// GetStatus godoc
// @Summary     Poll order status
// @Description Returns the current lifecycle status of an order, including the artifact URL once generation completes.
// @Tags        orders
// @Produce     json
// @Param       order_id path string true "Order ID"
// @Success     200 {object} models.OrderStatusResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders/{order_id} [get]
func (h *OrdersHandler) GetStatus(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	order, err := h.store.GetOrder(c.Param("order_id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Order not found"})
			return
		}
		log.Printf("Order status error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get order"})
		return
	}

	resp := models.OrderStatusResponse{
		OrderID:   order.ID,
		Status:    order.Status,
		Tier:      order.Tier,
		CreatedAt: order.CreatedAt,
	}
	if order.PDFURL.Valid {
		resp.PDFURL = order.PDFURL.String
	}
	c.JSON(http.StatusOK, resp)
}
