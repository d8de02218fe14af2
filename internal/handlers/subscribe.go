package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"blankspace-backend/internal/config"
	"blankspace-backend/internal/metrics"
	"blankspace-backend/internal/models"
	"blankspace-backend/internal/resend"
	"blankspace-backend/internal/supabase"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubscriberStore persists email subscribers.
type SubscriberStore interface {
	CreateSubscriber(email, source string) error
}

type SubscribeHandler struct {
	cfg    *config.Config
	store  SubscriberStore
	mailer EmailSender
}

func NewSubscribeHandler(cfg *config.Config, store SubscriberStore, mailer EmailSender) *SubscribeHandler {
	return &SubscribeHandler{cfg: cfg, store: store, mailer: mailer}
}

// Subscribe godoc
// @Summary     Subscribe an email address
// @Description Records a sample-download subscriber and sends a welcome email. Subscribing twice is treated as success.
// @Tags        subscribe
// @Accept      json
// @Produce     json
// @Param       request body models.SubscribeRequest true "Subscriber email"
// @Success     200 {object} models.SubscribeResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /subscribe [post]
func (h *SubscribeHandler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Email is required"})
		return
	}

	if req.Email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Email is required"})
		return
	}
	if !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid email format"})
		return
	}

	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	err := h.store.CreateSubscriber(req.Email, "sample_download")
	if err != nil && !errors.Is(err, supabase.ErrDuplicateSubscriber) {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to subscribe"})
		return
	}

	metrics.Subscriptions.Inc()

	subject, html := resend.WelcomeEmail(h.cfg.AppBaseURL)
	if err := h.mailer.SendEmail(req.Email, subject, html); err != nil {
		log.Printf("Email sending error: %v", err)
		metrics.EmailFailures.WithLabelValues("welcome").Inc()
	} else {
		metrics.EmailsSent.WithLabelValues("welcome").Inc()
	}

	c.JSON(http.StatusOK, models.SubscribeResponse{Success: true})
}
