package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"phoneline/internal/menu"
	"phoneline/internal/storage"
	"phoneline/internal/upstream"
)

const samplePhone = "19202808073"

// --------------------------------------------------
// Mocks
// --------------------------------------------------

type failingFetcher struct {
	err error
}

func (f failingFetcher) FetchRestaurant(ctx context.Context, phone string) (*menu.Upstream, error) {
	return nil, f.err
}

type failingRepository struct {
	*InMemoryRepository
}

func (failingRepository) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	return errors.New("database unavailable")
}

func newSampleService(t *testing.T, repo Repository, store storage.Store) *Service {
	t.Helper()
	fetcher := upstream.NewStaticClient()
	fetcher.Add(samplePhone, menu.SampleDocument())

	s := NewService(fetcher, repo, store, zap.NewNop(), time.UTC)
	s.now = func() time.Time { return at("2025-01-15", "12:00") }
	return s
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("+1 (920) 280-8073")
	require.NoError(t, err)
	assert.Equal(t, samplePhone, got)

	_, err = NormalizePhone("call me")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = NormalizePhone("")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestGetRestaurantData_Success(t *testing.T) {
	s := newSampleService(t, nil, nil)

	data, err := s.GetRestaurantData(context.Background(), "+"+samplePhone)

	require.NoError(t, err)
	assert.Equal(t, "Curry Delights", data.RestaurantName)
	assert.Equal(t, "Curry Delights", data.DisplayName)
	assert.Equal(t, "curry123", data.RestaurantID)
	assert.Equal(t, "123 Flavor Street, Tasteville", data.RestaurantAddress)
	assert.Equal(t, []string{"Appetizers", "Main Course", "Desserts"}, data.CategoryList)
	assert.Len(t, data.ItemList, 4)
	assert.Len(t, data.CustomizationDict, 3)
	assert.True(t, data.IsOpen)
	assert.Equal(t, "Thank you for calling Curry Delights! How can I help you today?", data.GreetingMessage)
	assert.Equal(t, NoFAQs, data.RestaurantFAQs)
	assert.Nil(t, data.ForwardNumber)
}

func TestGetRestaurantData_UsesRestaurantTimezone(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	fetcher := upstream.NewSampleClient()
	s := NewService(fetcher, nil, nil, zap.NewNop(), loc)
	// 16:00 UTC on a Wednesday is 11:00 in EST.
	s.now = func() time.Time { return at("2025-01-15", "16:00") }

	data, err := s.GetRestaurantData(context.Background(), samplePhone)

	require.NoError(t, err)
	assert.True(t, data.IsOpen)

	// 03:30 UTC Thursday is 22:30 Wednesday in EST.
	s.now = func() time.Time { return at("2025-01-16", "03:30") }
	data, err = s.GetRestaurantData(context.Background(), samplePhone)

	require.NoError(t, err)
	assert.False(t, data.IsOpen)
	assert.Equal(t, "Sorry, Curry Delights is currently closed.", data.GreetingMessage)
}

func TestGetRestaurantData_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newSampleService(t, nil, nil).GetRestaurantData(ctx, "n/a")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = newSampleService(t, nil, nil).GetRestaurantData(ctx, "5550000")
	assert.ErrorIs(t, err, upstream.ErrNotFound)

	s := NewService(failingFetcher{err: errors.New("connection refused")}, nil, nil, nil, nil)
	_, err = s.GetRestaurantData(ctx, samplePhone)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetRestaurantData_RecordsSnapshotAndDumps(t *testing.T) {
	repo := NewInMemoryRepository()
	dir := t.TempDir()
	s := newSampleService(t, repo, storage.NewLocalStore(dir))

	_, err := s.GetRestaurantData(context.Background(), samplePhone)
	require.NoError(t, err)

	snap, err := repo.LatestSnapshot(context.Background(), samplePhone)
	require.NoError(t, err)
	assert.Equal(t, "Curry Delights", snap.RestaurantName)
	assert.Equal(t, "curry123", snap.RestaurantID)
	assert.NotEmpty(t, snap.ID)

	var normalized menu.NormalizedMenu
	require.NoError(t, json.Unmarshal(snap.Normalized, &normalized))
	assert.Len(t, normalized.ItemList, 4)

	keys := storage.KeysFor("Curry Delights", snap.ID)
	for _, key := range []string{keys.Data, keys.Simplified, keys.Converted} {
		body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
		require.NoError(t, err, key)
		assert.True(t, json.Valid(body), key)
	}

	converted, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(keys.Converted)))
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(converted), "Appetizers"), strings.Index(string(converted), "Main Course"))
}

func TestGetRestaurantData_SnapshotFailureIsNotFatal(t *testing.T) {
	s := newSampleService(t, failingRepository{NewInMemoryRepository()}, nil)

	data, err := s.GetRestaurantData(context.Background(), samplePhone)

	require.NoError(t, err)
	assert.Equal(t, "Curry Delights", data.RestaurantName)
}

func TestFindItem(t *testing.T) {
	s := newSampleService(t, nil, nil)

	details, err := s.FindItem(context.Background(), samplePhone, "Butter Chicken")
	require.NoError(t, err)
	assert.Equal(t, 16.94, details.BasePrice)

	_, err = s.FindItem(context.Background(), samplePhone, "butter chicken")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPriceItem(t *testing.T) {
	s := newSampleService(t, nil, nil)

	quote, err := s.PriceItem(context.Background(), samplePhone, "Tandoori Momo", map[string]string{
		"Veg or Non Veg": "Non Veg",
	})
	require.NoError(t, err)
	assert.Equal(t, 12.42, quote.BasePrice)
	assert.Equal(t, 13.69, quote.FinalPrice)
	assert.Empty(t, quote.MissingRequired)

	quote, err = s.PriceItem(context.Background(), samplePhone, "Tandoori Momo", nil)
	require.NoError(t, err)
	assert.Equal(t, 12.42, quote.FinalPrice)
	assert.Equal(t, []string{"Veg or Non Veg"}, quote.MissingRequired)

	_, err = s.PriceItem(context.Background(), samplePhone, "  ", nil)
	assert.ErrorIs(t, err, ErrMissingParams)
}

func TestListSnapshots(t *testing.T) {
	repo := NewInMemoryRepository()
	s := newSampleService(t, repo, nil)

	for i := 0; i < 3; i++ {
		fetchedAt := at("2025-01-15", "12:00").Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return fetchedAt }
		_, err := s.LoadMenu(context.Background(), samplePhone)
		require.NoError(t, err)
	}

	snapshots, err := s.ListSnapshots(context.Background(), "+1 920 280 8073", 2)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].FetchedAt.After(snapshots[1].FetchedAt))

	empty, err := newSampleService(t, nil, nil).ListSnapshots(context.Background(), samplePhone, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryRepository_KeepsNewestPerPhone(t *testing.T) {
	repo := NewInMemoryRepository()
	s := newSampleService(t, repo, nil)

	start := at("2025-01-15", "12:00")
	total := MaxSnapshotsPerPhone + 15
	for i := 0; i < total; i++ {
		fetchedAt := start.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return fetchedAt }
		_, err := s.LoadMenu(context.Background(), samplePhone)
		require.NoError(t, err)
	}

	require.NoError(t, repo.SaveSnapshot(context.Background(), &Snapshot{Phone: "15550001111"}))

	snapshots, err := repo.ListSnapshots(context.Background(), samplePhone, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, MaxSnapshotsPerPhone)
	assert.Equal(t, start.Add(time.Duration(total-1)*time.Minute), snapshots[0].FetchedAt)
	assert.Equal(t, start.Add(time.Duration(total-MaxSnapshotsPerPhone)*time.Minute), snapshots[MaxSnapshotsPerPhone-1].FetchedAt)

	other, err := repo.ListSnapshots(context.Background(), "15550001111", 0)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

// --------------------------------------------------
// Handler
// --------------------------------------------------

func newTestRouter(t *testing.T, s *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(s)
	r := gin.New()
	h.Register(r.Group("/api/restaurants/:phone"))
	r.GET("/api/admin/restaurants/:phone/snapshots", h.ListSnapshots)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GetRestaurant(t *testing.T) {
	r := newTestRouter(t, newSampleService(t, nil, nil))

	w := serve(r, http.MethodGet, "/api/restaurants/"+samplePhone, "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Curry Delights", body["restaurant_name"])
	assert.Equal(t, true, body["is_open"])
	assert.Contains(t, body, "item_list")
	assert.Contains(t, body, "customization_dict")
}

func TestHandler_GetMenu(t *testing.T) {
	r := newTestRouter(t, newSampleService(t, nil, nil))

	w := serve(r, http.MethodGet, "/api/restaurants/"+samplePhone+"/menu", "")

	require.Equal(t, http.StatusOK, w.Code)
	var m menu.NormalizedMenu
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, menu.NewCustomizedMenuItem("Tandoori Momo", 12.42, "Veg or Non Veg"), m.ItemList[0])
}

func TestHandler_GetConvertedMenu(t *testing.T) {
	r := newTestRouter(t, newSampleService(t, nil, nil))

	w := serve(r, http.MethodGet, "/api/restaurants/"+samplePhone+"/menu/converted", "")

	require.Equal(t, http.StatusOK, w.Code)
	var converted map[string][]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &converted))
	assert.Len(t, converted["Appetizers"], 2)
	assert.Empty(t, converted["Desserts"])
}

func TestHandler_GetItem(t *testing.T) {
	r := newTestRouter(t, newSampleService(t, nil, nil))

	w := serve(r, http.MethodGet, "/api/restaurants/"+samplePhone+"/items/Tandoori%20Momo", "")
	require.Equal(t, http.StatusOK, w.Code)
	var details menu.ItemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, 12.42, details.BasePrice)
	assert.Len(t, details.Customizations, 2)

	w = serve(r, http.MethodGet, "/api/restaurants/"+samplePhone+"/items/Tandoori%20Momo?format=text", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ITEM: Tandoori Momo")

	w = serve(r, http.MethodGet, "/api/restaurants/"+samplePhone+"/items/Samosa", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodGet, "/api/restaurants/"+samplePhone+"/items/Samosa?format=text", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, menu.NotFoundMessage, w.Body.String())
}

func TestHandler_PriceItem(t *testing.T) {
	r := newTestRouter(t, newSampleService(t, nil, nil))

	w := serve(r, http.MethodPost, "/api/restaurants/"+samplePhone+"/price",
		`{"item":"Soya Malai Chaap-Must Try","selections":{"Extra Malai":"Extra Malai (more creamy)"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	var quote PriceQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 15.95, quote.FinalPrice)

	w = serve(r, http.MethodPost, "/api/restaurants/"+samplePhone+"/price", `{"item":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/api/restaurants/"+samplePhone+"/price", `{"selections":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ErrorStatuses(t *testing.T) {
	r := newTestRouter(t, newSampleService(t, nil, nil))

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/api/restaurants/abc", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/restaurants/5550000", "").Code)

	broken := NewService(failingFetcher{err: errors.New("timeout")}, nil, nil, nil, nil)
	w := serve(newTestRouter(t, broken), http.MethodGet, "/api/restaurants/"+samplePhone, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandler_ListSnapshots(t *testing.T) {
	repo := NewInMemoryRepository()
	s := newSampleService(t, repo, nil)
	r := newTestRouter(t, s)

	_, err := s.LoadMenu(context.Background(), samplePhone)
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/api/admin/restaurants/"+samplePhone+"/snapshots?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snapshots []Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshots))
	assert.Len(t, snapshots, 1)

	w = serve(r, http.MethodGet, "/api/admin/restaurants/"+samplePhone+"/snapshots?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidPhone, http.StatusBadRequest},
		{ErrMissingParams, http.StatusBadRequest},
		{upstream.ErrNotFound, http.StatusNotFound},
		{ErrItemNotFound, http.StatusNotFound},
		{ErrUpstream, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
