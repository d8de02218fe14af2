package stripe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the Stripe REST API directly. Only the two checkout
// session calls this service needs are implemented.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CheckoutSession is the subset of Stripe's checkout session object the
// service reads. PaymentIntent is the expanded id string, not the object.
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"` // "paid", "unpaid", "no_payment_required"
	CustomerEmail string `json:"customer_email"`
	PaymentIntent string `json:"payment_intent"`
}

// PaymentIntent is the subset of Stripe's payment intent object carried in
// payment_intent.* webhook events.
type PaymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type CheckoutSessionParams struct {
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	ProductName   string
	UnitAmount    int // cents
	Currency      string
	Metadata      map[string]string
}

// CreateCheckoutSession creates a hosted checkout session with a single
// dynamically priced line item.
func (c *Client) CreateCheckoutSession(params CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("customer_email", params.CustomerEmail)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(params.UnitAmount))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("automatic_tax[enabled]", "true")
	for key, value := range params.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to create checkout session: status %d, body: %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("session id is empty in response, body: %s", string(body))
	}

	return &session, nil
}

// RetrieveCheckoutSession fetches a checkout session by id so the order
// recorder can verify its payment status.
func (c *Client) RetrieveCheckoutSession(sessionID string) (*CheckoutSession, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to retrieve checkout session: status %d, body: %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &session, nil
}
