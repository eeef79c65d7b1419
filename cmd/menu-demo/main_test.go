package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneline/internal/auth"
	"phoneline/internal/menu"
	"phoneline/internal/restaurant"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const chaiStopYAML = `restaurant:
  name: Chai Stop
  address: 9 Station Road
  categories:
    - {id: c1, name: Drinks}
  items:
    - name: Masala Chai
      price: 5
      categoryIds: [c1]
`

func TestListCmd_Sample(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Restaurant: Curry Delights")
	assert.Contains(t, out, "Categories available: Appetizers, Main Course, Desserts")
	assert.Contains(t, out, "• Butter Chicken - $16.94")
}

func TestListCmd_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(chaiStopYAML), 0o644))

	out, err := run(t, "--file", path, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Restaurant: Chai Stop")
	assert.Contains(t, out, "Address: 9 Station Road")
	assert.Contains(t, out, "• Masala Chai - $5.65")
}

func TestListCmd_BadFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "menu.txt")
	require.NoError(t, os.WriteFile(txt, []byte("{}"), 0o644))
	_, err := run(t, "--file", txt, "list")
	assert.ErrorIs(t, err, menu.ErrUnsupportedFile)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"status":"ok"}`), 0o644))
	_, err = run(t, "--file", empty, "list")
	assert.ErrorContains(t, err, "missing restaurant")
}

func TestListCmd_Phone(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"restaurant":{"name":"Momo House","items":[{"name":"Steamed Momo","price":"10.99"}]}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--phone", "15550001111", "--base-url", srv.URL, "list")
	require.NoError(t, err)

	assert.Equal(t, "/v1/restaurant/get-restaurant-info/15550001111", gotPath)
	assert.Contains(t, out, "Restaurant: Momo House")
	assert.Contains(t, out, "• Steamed Momo - $12.42")
}

func TestListCmd_PhoneIsReducedToDigits(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"restaurant":{"name":"Momo House"}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--phone", "+1 555 000 1111", "--base-url", srv.URL, "list")
	require.NoError(t, err)
	assert.Equal(t, "/v1/restaurant/get-restaurant-info/15550001111", gotPath)
	assert.Contains(t, out, "Restaurant: Momo House")

	gotPath = ""
	_, err = run(t, "--phone", "call me", "--base-url", srv.URL, "list")
	assert.ErrorIs(t, err, restaurant.ErrInvalidPhone)
	assert.Empty(t, gotPath)
}

func TestShowCmd(t *testing.T) {
	out, err := run(t, "show", "Tandoori Momo")
	require.NoError(t, err)
	assert.Contains(t, out, "ITEM: Tandoori Momo")
	assert.Contains(t, out, "1. Veg or Non Veg (Required):")
	assert.NotContains(t, out, "Final Price")

	out, err = run(t, "show", "Tandoori Momo", "--select", "Veg or Non Veg=Non Veg", "-s", "Quantity=Large (10 pcs)")
	require.NoError(t, err)
	assert.Contains(t, out, "- Quantity: Large (10 pcs)")
	assert.Contains(t, out, "Final Price: $19.34")

	out, err = run(t, "show", "Tandoori Momo", "--select", "Quantity=Large (10 pcs)")
	require.NoError(t, err)
	assert.Contains(t, out, "Missing required: Veg or Non Veg")

	out, err = run(t, "show", "Chicken Biryani")
	require.NoError(t, err)
	assert.Contains(t, out, "Item 'Chicken Biryani' not found in the menu.")
}

func TestShowCmd_InvalidSelection(t *testing.T) {
	_, err := run(t, "show", "Tandoori Momo", "--select", "Quantity")
	assert.ErrorContains(t, err, "invalid selection")

	_, err = run(t, "show")
	assert.Error(t, err)
}

func TestDemoCmd(t *testing.T) {
	out, err := run(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "===== ITEMS FROM THE CONVERSATION =====")
	assert.Contains(t, out, "Final Price: $13.69")
	assert.Contains(t, out, "Final Price: $15.95")
	assert.Contains(t, out, "Total: $29.64")
	assert.True(t, strings.HasSuffix(out, "Thank you for using the restaurant menu explorer!\n"))
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "menu-demo-test-secret")

	out, err := run(t, "token", "--user", "u42", "--role", auth.RoleAdmin)
	require.NoError(t, err)

	tokens, err := auth.NewTokens("menu-demo-test-secret", time.Hour)
	require.NoError(t, err)
	claims, err := tokens.Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u42", claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokenCmd_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := run(t, "token")
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}

func TestParseSelections(t *testing.T) {
	got, err := parseSelections([]string{" Spice Level = Hot ", "Extra Malai=Extra Malai (more creamy)"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Spice Level": "Hot",
		"Extra Malai": "Extra Malai (more creamy)",
	}, got)

	got, err = parseSelections(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
