package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"phoneline/internal/menu"
)

// MenuLoader loads the normalized menu for a restaurant phone line.
type MenuLoader interface {
	LoadMenu(ctx context.Context, phone string) (*menu.NormalizedMenu, error)
}

type Handler struct {
	menus     MenuLoader
	statusFor func(error) int
}

// NewHandler builds the order handler. statusFor maps menu-loading errors
// to HTTP statuses.
func NewHandler(menus MenuLoader, statusFor func(error) int) *Handler {
	if statusFor == nil {
		statusFor = func(error) int { return http.StatusBadGateway }
	}
	return &Handler{menus: menus, statusFor: statusFor}
}

// --------------------------------------------------
// POST /api/restaurants/:phone/orders/preview
// --------------------------------------------------
func (h *Handler) Preview(c *gin.Context) {
	var req struct {
		Items []Selection `json:"items"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyOrder.Error()})
		return
	}

	m, err := h.menus.LoadMenu(c.Request.Context(), c.Param("phone"))
	if err != nil {
		c.JSON(h.statusFor(err), gin.H{"error": err.Error()})
		return
	}

	o, err := Build(m, req.Items)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownItem) || errors.Is(err, ErrEmptyOrder) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":   o,
		"summary": Describe(o),
	})
}
