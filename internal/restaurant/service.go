package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phoneline/internal/menu"
	"phoneline/internal/storage"
	"phoneline/internal/upstream"
)

var (
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrItemNotFound  = errors.New("item not found in menu")
	ErrUpstream      = errors.New("restaurant service unavailable")
	ErrMissingParams = errors.New("missing required fields")
)

// Fetcher loads the upstream document for a restaurant phone line.
type Fetcher interface {
	FetchRestaurant(ctx context.Context, phone string) (*menu.Upstream, error)
}

type Service struct {
	fetcher  Fetcher
	repo     Repository
	store    storage.Store
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time
}

// NewService wires the restaurant service. repo and store are optional;
// without them fetches are not recorded.
func NewService(
	fetcher Fetcher,
	repo Repository,
	store storage.Store,
	logger *zap.Logger,
	location *time.Location,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		fetcher:  fetcher,
		repo:     repo,
		store:    store,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// loaded is one fetched and normalized restaurant.
type loaded struct {
	phone     string
	doc       *menu.Upstream
	converted menu.ConvertedMenu
	menu      *menu.NormalizedMenu
}

// NormalizePhone keeps only the digits of a phone number, so "+1 (920)
// 280-8073" and "19202808073" address the same restaurant.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return b.String(), nil
}

// --------------------------------------------------
// Fetch + normalize
// --------------------------------------------------
func (s *Service) load(ctx context.Context, rawPhone string) (*loaded, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	doc, err := s.fetcher.FetchRestaurant(ctx, phone)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty response", ErrUpstream)
	}

	converted := menu.Convert(doc.Restaurant)
	l := &loaded{
		phone:     phone,
		doc:       doc,
		converted: converted,
		menu:      converted.Curate(),
	}

	s.logger.Info("restaurant loaded",
		zap.String("phone", phone),
		zap.String("restaurant", NewInfo(doc.Restaurant).Name()),
		zap.Int("categories", len(l.menu.CategoryList)),
		zap.Int("items", len(l.menu.ItemList)),
	)

	s.record(ctx, l)
	return l, nil
}

// record saves a snapshot and writes the debug dumps. Failures are logged,
// never returned: the caller already has a usable menu.
func (s *Service) record(ctx context.Context, l *loaded) {
	if s.repo == nil && s.store == nil {
		return
	}

	info := NewInfo(l.doc.Restaurant)
	raw := l.doc.Raw
	if len(raw) == 0 {
		raw, _ = json.Marshal(l.doc)
	}
	normalized, err := json.Marshal(l.menu)
	if err != nil {
		s.logger.Warn("marshal normalized menu", zap.Error(err))
		return
	}

	snap := &Snapshot{
		ID:             uuid.New().String(),
		Phone:          l.phone,
		RestaurantName: info.Name(),
		Raw:            raw,
		Normalized:     normalized,
		FetchedAt:      s.now().UTC(),
	}
	if l.doc.Restaurant != nil {
		snap.RestaurantID = l.doc.Restaurant.RestaurantID.String()
	}

	if s.repo != nil {
		if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
			s.logger.Warn("save snapshot failed",
				zap.String("phone", l.phone),
				zap.Error(err),
			)
		}
	}

	if s.store != nil {
		s.dump(ctx, snap, l.converted)
	}
}

func (s *Service) dump(ctx context.Context, snap *Snapshot, converted menu.ConvertedMenu) {
	keys := storage.KeysFor(snap.RestaurantName, snap.ID)

	files := []struct {
		key string
		v   any
	}{
		{keys.Data, snap.Raw},
		{keys.Simplified, snap.Normalized},
		{keys.Converted, converted},
	}

	for _, f := range files {
		body, err := json.MarshalIndent(f.v, "", "    ")
		if err != nil {
			s.logger.Warn("marshal dump", zap.String("key", f.key), zap.Error(err))
			continue
		}
		loc, err := s.store.Put(ctx, f.key, body)
		if err != nil {
			s.logger.Warn("write dump failed", zap.String("key", f.key), zap.Error(err))
			continue
		}
		s.logger.Debug("dump written", zap.String("location", loc))
	}
}

// --------------------------------------------------
// Public operations
// --------------------------------------------------

// GetRestaurantData returns the full restaurant view for a phone line.
func (s *Service) GetRestaurantData(ctx context.Context, phone string) (*Data, error) {
	l, err := s.load(ctx, phone)
	if err != nil {
		return nil, err
	}
	return NewData(l.doc.Restaurant, l.menu, s.now().In(s.location)), nil
}

func (s *Service) LoadMenu(ctx context.Context, phone string) (*menu.NormalizedMenu, error) {
	l, err := s.load(ctx, phone)
	if err != nil {
		return nil, err
	}
	return l.menu, nil
}

// LoadConverted returns the category-bucketed view of the menu.
func (s *Service) LoadConverted(ctx context.Context, phone string) (menu.ConvertedMenu, error) {
	l, err := s.load(ctx, phone)
	if err != nil {
		return nil, err
	}
	return l.converted, nil
}

func (s *Service) FindItem(ctx context.Context, phone, name string) (*menu.ItemDetails, error) {
	m, err := s.LoadMenu(ctx, phone)
	if err != nil {
		return nil, err
	}

	details := menu.FindItemDetails(m, name)
	if details == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, name)
	}
	return details, nil
}

// PriceItem prices one item with the given selections. Missing required
// customizations are reported, not enforced.
func (s *Service) PriceItem(
	ctx context.Context,
	phone string,
	name string,
	selections map[string]string,
) (*PriceQuote, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingParams
	}

	details, err := s.FindItem(ctx, phone, name)
	if err != nil {
		return nil, err
	}

	if selections == nil {
		selections = map[string]string{}
	}
	price, _ := menu.CalculatePrice(details, selections)

	return &PriceQuote{
		Item:            details.Name,
		BasePrice:       details.BasePrice,
		Selections:      selections,
		FinalPrice:      price,
		MissingRequired: menu.MissingRequired(details, selections),
	}, nil
}

// ListSnapshots returns the recorded fetches for a phone line, newest first.
func (s *Service) ListSnapshots(ctx context.Context, phone string, limit int) ([]*Snapshot, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if s.repo == nil {
		return []*Snapshot{}, nil
	}

	snapshots, err := s.repo.ListSnapshots(ctx, digits, limit)
	if err != nil {
		return nil, err
	}
	if snapshots == nil {
		snapshots = []*Snapshot{}
	}
	return snapshots, nil
}
