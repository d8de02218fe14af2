package stripe_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blankspace-backend/internal/stripe"
)

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "buyer@example.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "999", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Digital Coloring Book", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_tax[enabled]"))
		assert.Equal(t, "digital", r.PostForm.Get("metadata[tier]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_123","url":"https://checkout.stripe.com/pay/cs_test_123","payment_status":"unpaid"}`))
	}))
	defer server.Close()

	client := stripe.NewClient(server.URL, "sk_test_123")
	session, err := client.CreateCheckoutSession(stripe.CheckoutSessionParams{
		CustomerEmail: "buyer@example.com",
		SuccessURL:    "http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "http://localhost:3000/checkout",
		ProductName:   "Digital Coloring Book",
		UnitAmount:    999,
		Currency:      "usd",
		Metadata:      map[string]string{"tier": "digital"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", session.URL)
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid currency"}}`))
	}))
	defer server.Close()

	client := stripe.NewClient(server.URL, "sk_test_123")
	_, err := client.CreateCheckoutSession(stripe.CheckoutSessionParams{Currency: "zzz"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestCreateCheckoutSession_EmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := stripe.NewClient(server.URL, "sk_test_123")
	_, err := client.CreateCheckoutSession(stripe.CheckoutSessionParams{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session id is empty")
}

func TestRetrieveCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/checkout/sessions/cs_test_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_123","payment_status":"paid","customer_email":"buyer@example.com","payment_intent":"pi_1"}`))
	}))
	defer server.Close()

	client := stripe.NewClient(server.URL, "sk_test_123")
	session, err := client.RetrieveCheckoutSession("cs_test_123")

	require.NoError(t, err)
	assert.Equal(t, "paid", session.PaymentStatus)
	assert.Equal(t, "buyer@example.com", session.CustomerEmail)
	assert.Equal(t, "pi_1", session.PaymentIntent)
}

func TestRetrieveCheckoutSession_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"No such checkout session"}}`))
	}))
	defer server.Close()

	client := stripe.NewClient(server.URL, "sk_test_123")
	_, err := client.RetrieveCheckoutSession("cs_missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
