package menu

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundMessage is what FormatItemDetails renders for a missing item.
const NotFoundMessage = "Item not found in menu."

var banner = strings.Repeat("=", 50)

// FormatItemDetails renders an item, its customizations and, when
// selections is non-nil, the selected options and the final price.
func FormatItemDetails(details *ItemDetails, selections map[string]string) string {
	if details == nil {
		return NotFoundMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", banner)
	fmt.Fprintf(&b, "ITEM: %s\n", details.Name)
	fmt.Fprintf(&b, "Base Price: $%.2f\n", details.BasePrice)

	if len(details.Customizations) > 0 {
		b.WriteString("\nAvailable Customizations:\n")
		for i, c := range details.Customizations {
			required := "Optional"
			if c.Required {
				required = "Required"
			}
			fmt.Fprintf(&b, "%d. %s (%s):\n", i+1, c.Name, required)
			for j, opt := range c.Options {
				if opt.HasSurcharge() {
					fmt.Fprintf(&b, "   %d. %s (+$%.2f)\n", j+1, opt.Name, opt.Price)
				} else {
					fmt.Fprintf(&b, "   %d. %s\n", j+1, opt.Name)
				}
			}
		}
	}

	if selections != nil {
		b.WriteString("\nSelected Options:\n")
		names := make([]string, 0, len(selections))
		for name := range selections {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %s\n", name, selections[name])
		}

		price, _ := CalculatePrice(details, selections)
		fmt.Fprintf(&b, "\nFinal Price: $%.2f\n", price)
	}

	b.WriteString(banner)
	return b.String()
}
