package models

import "time"

type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	DemoMode  bool   `json:"demoMode,omitempty"`
}

type OrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

type OrderStatusResponse struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Tier      string    `json:"tier"`
	PDFURL    string    `json:"pdfUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type PreviewResponse struct {
	PreviewURL  string `json:"previewUrl"`
	OriginalURL string `json:"originalUrl"`
}

type UploadResponse struct {
	Success   bool   `json:"success"`
	FileName  string `json:"fileName"`
	PublicURL string `json:"publicUrl"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	DemoMode  bool   `json:"demoMode,omitempty"`
}

type SubscribeResponse struct {
	Success bool `json:"success"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type OrderListResponse struct {
	Orders []OrderSummary `json:"orders"`
}

type OrderSummary struct {
	ID        string    `json:"orderId"`
	UserEmail string    `json:"userEmail"`
	Tier      string    `json:"tier"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
