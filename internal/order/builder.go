package order

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"phoneline/internal/menu"
)

var (
	ErrUnknownItem = errors.New("item not on menu")
	ErrEmptyOrder  = errors.New("order has no items")
)

// Build prices every selection against m. A menu item that cannot be
// found fails the whole order; manual items are carried unpriced.
func Build(m *menu.NormalizedMenu, selections []Selection) (*Order, error) {
	if len(selections) == 0 {
		return nil, ErrEmptyOrder
	}

	o := &Order{Lines: make([]Line, 0, len(selections))}
	total := 0.0

	for _, sel := range selections {
		name := strings.TrimSpace(sel.Item)
		if name == "" {
			return nil, fmt.Errorf("%w: empty item name", ErrUnknownItem)
		}

		if sel.Manual {
			o.Lines = append(o.Lines, Line{
				Name:           name,
				Customizations: strings.TrimSpace(sel.ManualCustomizations),
				Instructions:   strings.TrimSpace(sel.Instructions),
			})
			continue
		}

		details := menu.FindItemDetails(m, name)
		if details == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, name)
		}

		price, _ := menu.CalculatePrice(details, sel.Customizations)
		line := Line{
			Name:           details.Name,
			Customizations: JoinCustomizations(sel.Customizations),
			Instructions:   strings.TrimSpace(sel.Instructions),
			UnitPrice:      price,
			Priced:         true,
		}
		for _, missing := range menu.MissingRequired(details, sel.Customizations) {
			line.Warnings = append(line.Warnings, fmt.Sprintf("%s is required", missing))
		}
		line.Warnings = append(line.Warnings, unknownChoices(details, sel.Customizations)...)

		o.Lines = append(o.Lines, line)
		total += price
	}

	o.Total = menu.RoundCents(total)
	return o, nil
}

// JoinCustomizations renders selections as "Name: Option, Name: Option",
// sorted by customization name.
func JoinCustomizations(selections map[string]string) string {
	parts := make([]string, 0, len(selections))
	for _, name := range sortedKeys(selections) {
		parts = append(parts, name+": "+selections[name])
	}
	return strings.Join(parts, ", ")
}

func unknownChoices(details *menu.ItemDetails, selections map[string]string) []string {
	known := make(map[string]map[string]bool, len(details.Customizations))
	for _, c := range details.Customizations {
		opts := make(map[string]bool, len(c.Options))
		for _, o := range c.Options {
			opts[o.Name] = true
		}
		known[c.Name] = opts
	}

	var warnings []string
	for _, name := range sortedKeys(selections) {
		opts, ok := known[name]
		switch {
		case !ok:
			warnings = append(warnings, fmt.Sprintf("%s is not a customization of %s", name, details.Name))
		case !opts[selections[name]]:
			warnings = append(warnings, fmt.Sprintf("%q is not an option of %s", selections[name], name))
		}
	}
	return warnings
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe renders the order the way the agent reads it back.
func Describe(o *Order) string {
	if o == nil || len(o.Lines) == 0 {
		return "No items."
	}

	var b strings.Builder
	for _, l := range o.Lines {
		b.WriteString("• ")
		b.WriteString(l.Name)
		if l.Customizations != "" {
			fmt.Fprintf(&b, " (%s)", l.Customizations)
		}
		if l.Priced {
			fmt.Fprintf(&b, " - $%.2f", l.UnitPrice)
		}
		if l.Instructions != "" {
			fmt.Fprintf(&b, " [%s]", l.Instructions)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nTotal: $%.2f", o.Total)
	return b.String()
}
