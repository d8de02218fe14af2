package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"blankspace-backend/internal/models"
)

// OrderLister exposes recent orders for the ops surface.
type OrderLister interface {
	ListOrders(limit int) ([]models.Order, error)
}

type AdminHandler struct {
	store OrderLister
}

func NewAdminHandler(store OrderLister) *AdminHandler {
	return &AdminHandler{store: store}
}

// ListOrders godoc
// @Summary     List recent orders
// @Description Returns the most recent orders. Requires a Supabase JWT.
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /v1/admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	orders, err := h.store.ListOrders(100)
	if err != nil {
		log.Printf("Failed to list orders: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list orders"})
		return
	}

	summaries := make([]models.OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, models.OrderSummary{
			ID:        order.ID,
			UserEmail: order.UserEmail,
			Tier:      order.Tier,
			Status:    order.Status,
			CreatedAt: order.CreatedAt,
			UpdatedAt: order.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, models.OrderListResponse{Orders: summaries})
}
