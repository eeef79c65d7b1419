package menu

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NormalizedMenu is the flat, display-ready form of an upstream menu.
// Every price in it is tax-inclusive and rounded to cents.
type NormalizedMenu struct {
	CategoryList      []string                   `json:"category_list"`
	ItemList          []MenuItem                 `json:"item_list"`
	CustomizationDict map[string][]Customization `json:"customization_dict"`
}

// MenuItem is one entry of the item list. Label is the display name of the
// item's first customization and is empty when the item has none.
type MenuItem struct {
	Name  string
	Price float64
	Label string
}

// NewMenuItem builds an item without customizations.
func NewMenuItem(name string, price float64) MenuItem {
	return MenuItem{Name: name, Price: price}
}

// NewCustomizedMenuItem builds an item whose first customization is label.
func NewCustomizedMenuItem(name string, price float64, label string) MenuItem {
	return MenuItem{Name: name, Price: price, Label: label}
}

// HasCustomization reports whether the item carries a customization label.
func (m MenuItem) HasCustomization() bool {
	return m.Label != ""
}

// MarshalJSON keeps the wire shape consumed by the dashboard:
// [name, price] or [name, price, label].
func (m MenuItem) MarshalJSON() ([]byte, error) {
	if m.HasCustomization() {
		return json.Marshal([]any{m.Name, m.Price, m.Label})
	}
	return json.Marshal([]any{m.Name, m.Price})
}

func (m *MenuItem) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("menu item: %w", err)
	}
	if len(raw) < 2 || len(raw) > 3 {
		return fmt.Errorf("menu item: expected 2 or 3 elements, got %d", len(raw))
	}

	var item MenuItem
	if err := json.Unmarshal(raw[0], &item.Name); err != nil {
		return fmt.Errorf("menu item name: %w", err)
	}
	if err := json.Unmarshal(raw[1], &item.Price); err != nil {
		return fmt.Errorf("menu item price: %w", err)
	}
	if len(raw) == 3 {
		if err := json.Unmarshal(raw[2], &item.Label); err != nil {
			return fmt.Errorf("menu item label: %w", err)
		}
	}
	*m = item
	return nil
}

// Option is one choice of a customization. A zero Price means the option is
// free; any other value is a tax-inclusive surcharge.
type Option struct {
	Name  string
	Price float64
}

// HasSurcharge reports whether choosing the option changes the item price.
func (o Option) HasSurcharge() bool {
	return o.Price != 0
}

// MarshalJSON encodes free options as [name] and priced ones as [name, price].
func (o Option) MarshalJSON() ([]byte, error) {
	if o.HasSurcharge() {
		return json.Marshal([]any{o.Name, o.Price})
	}
	return json.Marshal([]any{o.Name})
}

func (o *Option) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("option: %w", err)
	}
	if len(raw) == 0 || len(raw) > 2 {
		return errors.New("option: expected 1 or 2 elements")
	}

	var opt Option
	if err := json.Unmarshal(raw[0], &opt.Name); err != nil {
		return fmt.Errorf("option name: %w", err)
	}
	if len(raw) == 2 {
		if err := json.Unmarshal(raw[1], &opt.Price); err != nil {
			return fmt.Errorf("option price: %w", err)
		}
	}
	*o = opt
	return nil
}

// Customization describes one customization of an item. MaxSelect is only
// set (and encoded) when more than one option may be picked.
type Customization struct {
	Name      string   `json:"name"`
	Options   []Option `json:"options"`
	Required  bool     `json:"required"`
	MaxSelect int      `json:"maxSelect,omitempty"`
}

// ItemDetails is the lookup result for one item.
type ItemDetails struct {
	Name           string          `json:"name"`
	BasePrice      float64         `json:"base_price"`
	Customizations []Customization `json:"customizations"`
}
