package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"phoneline/internal/menu"
)

var (
	ErrNotFound        = errors.New("restaurant not found")
	ErrInvalidDocument = errors.New("invalid restaurant document")
)

// maxBodyBytes caps how much of a restaurant document we are willing to read.
const maxBodyBytes = 8 << 20

// Client talks to the restaurant-data service.
type Client struct {
	BaseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchRestaurant loads the document for the restaurant reachable at phone.
// phone must already be normalized to digits.
func (c *Client) FetchRestaurant(ctx context.Context, phone string) (*menu.Upstream, error) {
	endpoint := fmt.Sprintf("%s/v1/restaurant/get-restaurant-info/%s", c.BaseURL, url.PathEscape(phone))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restaurant request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("restaurant fetched",
		zap.String("phone", phone),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, phone)
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn("restaurant service error",
			zap.String("phone", phone),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 256)),
		)
		return nil, fmt.Errorf("restaurant service returned status %d", resp.StatusCode)
	}

	return Decode(body)
}

// Decode parses a restaurant document. Only malformed JSON or a missing
// restaurant section is an error; every field inside is decoded leniently.
func Decode(body []byte) (*menu.Upstream, error) {
	var doc menu.Upstream
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Restaurant == nil {
		return nil, fmt.Errorf("%w: missing restaurant", ErrInvalidDocument)
	}
	return &doc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
