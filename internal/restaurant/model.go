package restaurant

import (
	"encoding/json"
	"time"

	"phoneline/internal/menu"
)

// Data is everything the testing agent needs about one restaurant, in the
// shape the dashboard and the voice agent prompt consume.
type Data struct {
	RestaurantName     string                          `json:"restaurant_name"`
	DisplayName        string                          `json:"display_name"`
	RestaurantID       string                          `json:"restaurant_id"`
	RestaurantAddress  string                          `json:"restaurant_address"`
	PhonelineNumber    string                          `json:"phoneline_number"`
	CategoryList       []string                        `json:"category_list"`
	ItemList           []menu.MenuItem                 `json:"item_list"`
	CustomizationDict  map[string][]menu.Customization `json:"customization_dict"`
	DeliveryConfig     any                             `json:"deliveryConfig"`
	RestaurantFAQs     any                             `json:"restaurant_faqs"`
	IsOpen             bool                            `json:"is_open"`
	OpeningHours       string                          `json:"opening_hours"`
	HasDeliveryService bool                            `json:"has_delivery_service"`
	GreetingMessage    string                          `json:"greeting_message"`
	Announcement       string                          `json:"announcement"`
	ForwardNumber      *string                         `json:"forward_number"`
}

// NewData assembles Data from a restaurant and its normalized menu. now
// decides is_open and the greeting.
func NewData(r *menu.Restaurant, m *menu.NormalizedMenu, now time.Time) *Data {
	info := NewInfo(r)
	if m == nil {
		m = menu.NormalizeRestaurant(r)
	}

	var restaurantID, phone string
	if r != nil {
		restaurantID = r.RestaurantID.String()
		phone = r.PhonelineNumber.String()
	}

	return &Data{
		RestaurantName:     info.Name(),
		DisplayName:        info.DisplayName(),
		RestaurantID:       restaurantID,
		RestaurantAddress:  info.Address(),
		PhonelineNumber:    phone,
		CategoryList:       m.CategoryList,
		ItemList:           m.ItemList,
		CustomizationDict:  m.CustomizationDict,
		DeliveryConfig:     info.DeliveryConfig(),
		RestaurantFAQs:     info.FAQs(),
		IsOpen:             info.IsOpen(now),
		OpeningHours:       info.FormattedOpeningHours(),
		HasDeliveryService: info.HasDeliveryService(),
		GreetingMessage:    info.GreetingMessage(now),
		Announcement:       info.Announcement(),
		ForwardNumber:      info.ForwardNumber(),
	}
}

// Menu returns the normalized menu portion of d.
func (d *Data) Menu() *menu.NormalizedMenu {
	return &menu.NormalizedMenu{
		CategoryList:      d.CategoryList,
		ItemList:          d.ItemList,
		CustomizationDict: d.CustomizationDict,
	}
}

// Snapshot records one fetch of a restaurant document.
type Snapshot struct {
	ID             string          `json:"id"`
	Phone          string          `json:"phone"`
	RestaurantID   string          `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	Raw            json.RawMessage `json:"raw,omitempty"`
	Normalized     json.RawMessage `json:"normalized,omitempty"`
	FetchedAt      time.Time       `json:"fetched_at"`
}

// PriceQuote is the answer to a pricing request.
type PriceQuote struct {
	Item            string            `json:"item"`
	BasePrice       float64           `json:"base_price"`
	Selections      map[string]string `json:"selections"`
	FinalPrice      float64           `json:"final_price"`
	MissingRequired []string          `json:"missing_required,omitempty"`
}
