package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"phoneline/internal/menu"
)

const tinyDoc = `{"restaurant":{"name":"Chai Stop","items":[{"name":"Chai","price":"2"}]}}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, zap.NewNop())
}

func TestFetchRestaurant_Success(t *testing.T) {
	var gotPath string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tinyDoc))
	})

	doc, err := client.FetchRestaurant(context.Background(), "19202808073")

	require.NoError(t, err)
	assert.Equal(t, "/v1/restaurant/get-restaurant-info/19202808073", gotPath)
	require.NotNil(t, doc.Restaurant)
	assert.Equal(t, "Chai Stop", doc.Restaurant.Name.String())
	assert.JSONEq(t, tinyDoc, string(doc.Raw))

	m := menu.Normalize(doc)
	require.Len(t, m.ItemList, 1)
	assert.Equal(t, 2.26, m.ItemList[0].Price)
}

func TestFetchRestaurant_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such restaurant", http.StatusNotFound)
	})

	_, err := client.FetchRestaurant(context.Background(), "123")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchRestaurant_ServerError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchRestaurant(context.Background(), "123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestFetchRestaurant_InvalidBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	_, err := client.FetchRestaurant(context.Background(), "123")

	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", tinyDoc, false},
		{"missing restaurant", `{"status":"ok"}`, true},
		{"null restaurant", `{"restaurant":null}`, true},
		{"not json", `nope`, true},
		{"array", `[1,2]`, true},
		{"malformed restaurant fields", `{"restaurant":{"items":"oops","categories":7}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDocument)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc.Restaurant)
		})
	}
}

func TestStaticClient(t *testing.T) {
	ctx := context.Background()
	doc, err := Decode([]byte(tinyDoc))
	require.NoError(t, err)

	c := NewStaticClient()
	c.Add("555", doc)

	got, err := c.FetchRestaurant(ctx, "555")
	require.NoError(t, err)
	assert.Same(t, doc, got)

	_, err = c.FetchRestaurant(ctx, "666")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSampleClient_AnswersEveryPhone(t *testing.T) {
	c := NewSampleClient()

	doc, err := c.FetchRestaurant(context.Background(), "anything")

	require.NoError(t, err)
	assert.Equal(t, "Curry Delights", doc.Restaurant.Name.String())
}
