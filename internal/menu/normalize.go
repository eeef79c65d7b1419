package menu

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Uncategorized is the bucket for items whose first category id does not
// resolve. It only appears in CategoryList if the upstream declares it.
const Uncategorized = "Uncategorized"

const defaultCustomizationName = "Customization"

// Bucket holds the items of one category in upstream order.
type Bucket struct {
	Category string
	Declared bool
	Items    []BucketItem
}

// BucketItem is an item after tax and customization resolution.
type BucketItem struct {
	Name           string          `json:"name"`
	Price          float64         `json:"price"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// ConvertedMenu is the category-to-items grouping normalization builds on.
type ConvertedMenu []Bucket

// MarshalJSON encodes the buckets as one object keyed by category, in
// bucket order.
func (c ConvertedMenu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Category)
		if err != nil {
			return nil, err
		}
		items := b.Items
		if items == nil {
			items = []BucketItem{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Normalize converts an upstream document into a NormalizedMenu. A nil
// document, or one without a restaurant, yields an empty menu.
func Normalize(doc *Upstream) *NormalizedMenu {
	if doc == nil {
		return NormalizeRestaurant(nil)
	}
	return NormalizeRestaurant(doc.Restaurant)
}

// NormalizeRestaurant is Normalize for an already unwrapped restaurant.
func NormalizeRestaurant(r *Restaurant) *NormalizedMenu {
	return Convert(r).Curate()
}

// Convert groups the restaurant's items by the category their first
// category id maps to. Every declared category gets a bucket, even if no
// item lands in it.
func Convert(r *Restaurant) ConvertedMenu {
	if r == nil {
		return nil
	}

	categoryNames := make(map[string]string, len(r.Categories))
	var categoryOrder []string
	for _, c := range r.Categories {
		id := string(c.ID)
		if _, seen := categoryNames[id]; !seen {
			categoryOrder = append(categoryOrder, id)
		}
		categoryNames[id] = string(c.Name)
	}

	groups := make(map[string]CustomizationGroup, len(r.CustomizationGroups))
	for _, g := range r.CustomizationGroups {
		groups[string(g.ID)] = g
	}

	var buckets ConvertedMenu
	index := make(map[string]int)
	bucketFor := func(category string, declared bool) int {
		if i, ok := index[category]; ok {
			return i
		}
		index[category] = len(buckets)
		buckets = append(buckets, Bucket{Category: category, Declared: declared, Items: []BucketItem{}})
		return len(buckets) - 1
	}

	for _, id := range categoryOrder {
		bucketFor(categoryNames[id], true)
	}

	for _, item := range r.Items {
		category := Uncategorized
		if len(item.CategoryIDs) > 0 {
			if name := categoryNames[string(item.CategoryIDs[0])]; name != "" {
				category = name
			}
		}

		i := bucketFor(category, false)
		buckets[i].Items = append(buckets[i].Items, BucketItem{
			Name:           string(item.Name),
			Price:          ApplyTax(item.Price),
			Customizations: resolveCustomizations(item, groups),
		})
	}

	return buckets
}

// Curate flattens the buckets into the category list, item list and
// customization dictionary.
func (c ConvertedMenu) Curate() *NormalizedMenu {
	m := &NormalizedMenu{
		CategoryList:      []string{},
		ItemList:          []MenuItem{},
		CustomizationDict: make(map[string][]Customization),
	}

	for _, b := range c {
		if b.Declared {
			m.CategoryList = append(m.CategoryList, b.Category)
		}
		for _, item := range b.Items {
			if len(item.Customizations) == 0 {
				m.ItemList = append(m.ItemList, NewMenuItem(item.Name, item.Price))
				continue
			}
			m.ItemList = append(m.ItemList, NewCustomizedMenuItem(item.Name, item.Price, item.Customizations[0].Name))
			m.CustomizationDict[item.Name] = item.Customizations
		}
	}

	return m
}

func resolveCustomizations(item UpstreamItem, groups map[string]CustomizationGroup) []Customization {
	var candidates []CustomizationGroup

	src := item.Source()
	switch src.Kind {
	case SourceByReference:
		for _, id := range src.IDs {
			if g, ok := groups[string(id)]; ok {
				candidates = append(candidates, g)
			}
		}
	case SourceEmbedded:
		candidates = src.Embedded
	}

	var out []Customization
	for _, g := range candidates {
		if c, ok := g.normalize(src.Kind == SourceEmbedded); ok {
			out = append(out, c)
		}
	}
	return out
}

// DisplayName is the label shown for the group.
func (g CustomizationGroup) DisplayName() string {
	switch {
	case g.CustomerInstruction != "":
		return string(g.CustomerInstruction)
	case g.Name != "":
		return string(g.Name)
	default:
		return defaultCustomizationName
	}
}

// normalize taxes the group's options and reports false when no option
// survives, in which case the group is dropped. Only embedded groups carry
// a usable required flag; referenced groups rely on rules.minSelect.
func (g CustomizationGroup) normalize(embedded bool) (Customization, bool) {
	options := make([]Option, 0, len(g.Options))
	for _, o := range g.Options {
		if strings.TrimSpace(string(o.Name)) == "" {
			continue
		}
		options = append(options, Option{Name: string(o.Name), Price: ApplyTax(o.Price)})
	}
	if len(options) == 0 {
		return Customization{}, false
	}

	c := Customization{
		Name:     g.DisplayName(),
		Options:  options,
		Required: g.Rules.MinSelect > 0 || (embedded && bool(g.Required)),
	}
	if n := g.maxSelect(); n > 1 {
		c.MaxSelect = n
	}
	return c, true
}

func (g CustomizationGroup) maxSelect() int {
	if g.Rules.MaxSelect != 0 {
		return int(g.Rules.MaxSelect)
	}
	return int(g.MaxSelect)
}
