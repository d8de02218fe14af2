package handlers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"blankspace-backend/internal/config"
	"blankspace-backend/internal/handlers"
)

const webhookSecret = "whsec_test_secret"

type stubWebhookStore struct {
	paidSessionID string
	paidIntentID  string
	paidRows      int64
	failedIntent  string
}

func (s *stubWebhookStore) MarkOrderPaid(sessionID, paymentIntentID string) (int64, error) {
	s.paidSessionID = sessionID
	s.paidIntentID = paymentIntentID
	return s.paidRows, nil
}

func (s *stubWebhookStore) MarkOrderFailed(paymentIntentID string) (int64, error) {
	s.failedIntent = paymentIntentID
	return 1, nil
}

func signPayload(payload string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newWebhookRouter(store handlers.WebhookStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{StripeWebhookSecret: webhookSecret}
	router.POST("/api/webhook/stripe", handlers.NewWebhookHandler(cfg, store).HandleWebhook)
	return router
}

func postWebhook(router *gin.Engine, payload, signature string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/api/webhook/stripe", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhook_MissingSignature(t *testing.T) {
	store := &stubWebhookStore{}
	w := postWebhook(newWebhookRouter(store), `{"type":"checkout.session.completed"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No signature")
	assert.Empty(t, store.paidSessionID)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	store := &stubWebhookStore{}
	payload := `{"type":"checkout.session.completed"}`
	w := postWebhook(newWebhookRouter(store), payload, "t=123,v1=deadbeef")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")
	assert.Empty(t, store.paidSessionID)
}

func TestWebhook_CheckoutSessionCompleted(t *testing.T) {
	store := &stubWebhookStore{paidRows: 1}
	payload := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1"}}}`
	w := postWebhook(newWebhookRouter(store), payload, signPayload(payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
	assert.Equal(t, "cs_1", store.paidSessionID)
	assert.Equal(t, "pi_1", store.paidIntentID)
}

func TestWebhook_PaymentIntentFailed(t *testing.T) {
	store := &stubWebhookStore{}
	payload := `{"id":"evt_2","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_2","status":"requires_payment_method"}}}`
	w := postWebhook(newWebhookRouter(store), payload, signPayload(payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pi_2", store.failedIntent)
}

func TestWebhook_UnhandledEventStillAcknowledged(t *testing.T) {
	store := &stubWebhookStore{}
	payload := `{"id":"evt_3","type":"charge.refunded","data":{"object":{}}}`
	w := postWebhook(newWebhookRouter(store), payload, signPayload(payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
	assert.Empty(t, store.paidSessionID)
	assert.Empty(t, store.failedIntent)
}

func TestWebhook_ExpiredTimestampRejected(t *testing.T) {
	store := &stubWebhookStore{}
	payload := `{"id":"evt_4","type":"checkout.session.completed","data":{"object":{"id":"cs_4"}}}`
	w := postWebhook(newWebhookRouter(store), payload, signPayload(payload, time.Now().Add(-10*time.Minute)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")
}
