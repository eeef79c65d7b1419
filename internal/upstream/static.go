package upstream

import (
	"context"
	"fmt"
	"sync"

	"phoneline/internal/menu"
)

// StaticClient serves documents held in memory, keyed by phone digits.
// A StaticClient with a Fallback answers every phone with it.
type StaticClient struct {
	mu       sync.RWMutex
	docs     map[string]*menu.Upstream
	Fallback *menu.Upstream
}

func NewStaticClient() *StaticClient {
	return &StaticClient{docs: make(map[string]*menu.Upstream)}
}

// NewSampleClient answers every phone with the built-in sample restaurant.
func NewSampleClient() *StaticClient {
	c := NewStaticClient()
	c.Fallback = menu.SampleDocument()
	return c
}

func (c *StaticClient) Add(phone string, doc *menu.Upstream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[phone] = doc
}

func (c *StaticClient) FetchRestaurant(ctx context.Context, phone string) (*menu.Upstream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	doc, ok := c.docs[phone]
	c.mu.RUnlock()

	if ok {
		return doc, nil
	}
	if c.Fallback != nil {
		return c.Fallback, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, phone)
}
