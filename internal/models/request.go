package models

type CheckoutSessionRequest struct {
	Tier       string   `json:"tier" example:"digital"`
	Email      string   `json:"email" example:"customer@example.com"`
	ImageCount int      `json:"imageCount" example:"3"`
	Images     []string `json:"images"`
}

type CreateOrderRequest struct {
	SessionID string   `json:"sessionId"`
	ImageData []string `json:"imageData"`
	Tier      string   `json:"tier" example:"digital"`
}

type SubscribeRequest struct {
	Email string `json:"email" example:"customer@example.com"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
