package restaurant

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"phoneline/internal/menu"
	"phoneline/internal/upstream"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the restaurant routes on a group rooted at /:phone.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("", h.GetRestaurant)
	g.GET("/menu", h.GetMenu)
	g.GET("/menu/converted", h.GetConvertedMenu)
	g.GET("/items/:name", h.GetItem)
	g.POST("/price", h.PriceItem)
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidPhone), errors.Is(err, ErrMissingParams):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

// --------------------------------------------------
// GET /api/restaurants/:phone
// --------------------------------------------------
func (h *Handler) GetRestaurant(c *gin.Context) {
	data, err := h.service.GetRestaurantData(c.Request.Context(), c.Param("phone"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// --------------------------------------------------
// GET /api/restaurants/:phone/menu
// --------------------------------------------------
func (h *Handler) GetMenu(c *gin.Context) {
	m, err := h.service.LoadMenu(c.Request.Context(), c.Param("phone"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// --------------------------------------------------
// GET /api/restaurants/:phone/menu/converted
// --------------------------------------------------
func (h *Handler) GetConvertedMenu(c *gin.Context) {
	converted, err := h.service.LoadConverted(c.Request.Context(), c.Param("phone"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, converted)
}

// --------------------------------------------------
// GET /api/restaurants/:phone/items/:name
// ?format=text renders the item the way the menu explorer prints it.
// --------------------------------------------------
func (h *Handler) GetItem(c *gin.Context) {
	details, err := h.service.FindItem(
		c.Request.Context(),
		c.Param("phone"),
		c.Param("name"),
	)
	if err != nil {
		if c.Query("format") == "text" && errors.Is(err, ErrItemNotFound) {
			c.String(http.StatusNotFound, menu.NotFoundMessage)
			return
		}
		abortWithError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, menu.FormatItemDetails(details, nil))
		return
	}
	c.JSON(http.StatusOK, details)
}

// --------------------------------------------------
// POST /api/restaurants/:phone/price
// --------------------------------------------------
func (h *Handler) PriceItem(c *gin.Context) {
	var req struct {
		Item       string            `json:"item"`
		Selections map[string]string `json:"selections"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quote, err := h.service.PriceItem(
		c.Request.Context(),
		c.Param("phone"),
		req.Item,
		req.Selections,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// --------------------------------------------------
// ADMIN: GET /api/admin/restaurants/:phone/snapshots
// --------------------------------------------------
func (h *Handler) ListSnapshots(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	snapshots, err := h.service.ListSnapshots(
		c.Request.Context(),
		c.Param("phone"),
		limit,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshots)
}
