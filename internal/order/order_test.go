package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneline/internal/menu"
)

func sampleMenu() *menu.NormalizedMenu {
	return menu.Normalize(menu.SampleDocument())
}

func TestBuild_ConversationOrder(t *testing.T) {
	o, err := Build(sampleMenu(), []Selection{
		{Item: "Tandoori Momo", Customizations: map[string]string{"Veg or Non Veg": "Non Veg"}},
		{Item: "Soya Malai Chaap-Must Try", Customizations: map[string]string{"Extra Malai": "Extra Malai (more creamy)"}, Instructions: " extra napkins "},
	})

	require.NoError(t, err)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, Line{
		Name:           "Tandoori Momo",
		Customizations: "Veg or Non Veg: Non Veg",
		UnitPrice:      13.69,
		Priced:         true,
	}, o.Lines[0])
	assert.Equal(t, 15.95, o.Lines[1].UnitPrice)
	assert.Equal(t, "extra napkins", o.Lines[1].Instructions)
	assert.Equal(t, 29.64, o.Total)
}

func TestBuild_Warnings(t *testing.T) {
	o, err := Build(sampleMenu(), []Selection{{
		Item: "Tandoori Momo",
		Customizations: map[string]string{
			"Quantity":    "Jumbo",
			"Spice Level": "Hot",
		},
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Veg or Non Veg is required",
		`"Jumbo" is not an option of Quantity`,
		"Spice Level is not a customization of Tandoori Momo",
	}, o.Lines[0].Warnings)
	assert.Equal(t, 12.42, o.Lines[0].UnitPrice)
}

func TestBuild_ManualItem(t *testing.T) {
	o, err := Build(sampleMenu(), []Selection{
		{Item: "Paneer Tikka"},
		{Item: " Mango Lassi ", Manual: true, ManualCustomizations: "large ", Instructions: "no ice"},
	})

	require.NoError(t, err)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, Line{Name: "Mango Lassi", Customizations: "large", Instructions: "no ice"}, o.Lines[1])
	assert.Equal(t, 13.55, o.Total)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(sampleMenu(), nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = Build(sampleMenu(), []Selection{{Item: "Chicken Biryani"}})
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Contains(t, err.Error(), "Chicken Biryani")

	_, err = Build(sampleMenu(), []Selection{{Item: "  "}})
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestJoinCustomizations(t *testing.T) {
	assert.Equal(t, "", JoinCustomizations(nil))
	assert.Equal(t, "Quantity: Large (10 pcs), Veg or Non Veg: Veg", JoinCustomizations(map[string]string{
		"Veg or Non Veg": "Veg",
		"Quantity":       "Large (10 pcs)",
	}))
}

func TestDescribe(t *testing.T) {
	o := &Order{
		Lines: []Line{
			{Name: "Tandoori Momo", Customizations: "Veg or Non Veg: Non Veg", UnitPrice: 13.69, Priced: true},
			{Name: "Mango Lassi", Instructions: "no ice"},
		},
		Total: 13.69,
	}

	want := "• Tandoori Momo (Veg or Non Veg: Non Veg) - $13.69\n" +
		"• Mango Lassi [no ice]\n" +
		"\nTotal: $13.69"
	assert.Equal(t, want, Describe(o))
	assert.Equal(t, "No items.", Describe(nil))
}

// --------------------------------------------------
// Handler
// --------------------------------------------------

type stubLoader struct {
	m   *menu.NormalizedMenu
	err error
}

func (s stubLoader) LoadMenu(ctx context.Context, phone string) (*menu.NormalizedMenu, error) {
	return s.m, s.err
}

func previewRequest(h *Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/restaurants/:phone/orders/preview", h.Preview)

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants/123/orders/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Preview(t *testing.T) {
	h := NewHandler(stubLoader{m: sampleMenu()}, nil)

	w := previewRequest(h, `{"items":[{"item":"Butter Chicken","customizations":{"Spice Level":"Hot"}}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Order   Order  `json:"order"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 17.5, resp.Order.Total)
	assert.Contains(t, resp.Summary, "Butter Chicken (Spice Level: Hot) - $17.50")
}

func TestHandler_PreviewErrors(t *testing.T) {
	h := NewHandler(stubLoader{m: sampleMenu()}, nil)

	assert.Equal(t, http.StatusBadRequest, previewRequest(h, `{`).Code)
	assert.Equal(t, http.StatusBadRequest, previewRequest(h, `{"items":[]}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, previewRequest(h, `{"items":[{"item":"Samosa"}]}`).Code)

	failing := NewHandler(stubLoader{err: errors.New("down")}, func(error) int { return http.StatusServiceUnavailable })
	assert.Equal(t, http.StatusServiceUnavailable, previewRequest(failing, `{"items":[{"item":"Samosa"}]}`).Code)
}
