package menu

// CalculatePrice returns the item's base price plus the surcharge of each
// selected option, rounded to cents. ok is false only when details is nil.
//
// selections maps a customization name to the chosen option name. Unknown
// customizations, unknown options and missing required customizations all
// contribute nothing; CalculatePrice never validates.
func CalculatePrice(details *ItemDetails, selections map[string]string) (price float64, ok bool) {
	if details == nil {
		return 0, false
	}

	total := details.BasePrice
	for _, c := range details.Customizations {
		selected, picked := selections[c.Name]
		if !picked {
			continue
		}
		for _, opt := range c.Options {
			if opt.Name != selected {
				continue
			}
			if opt.HasSurcharge() {
				total += opt.Price
			}
			break
		}
	}

	return RoundCents(total), true
}

// MissingRequired lists, in customization order, the required
// customizations that selections does not cover.
func MissingRequired(details *ItemDetails, selections map[string]string) []string {
	if details == nil {
		return nil
	}

	var missing []string
	for _, c := range details.Customizations {
		if !c.Required {
			continue
		}
		if _, ok := selections[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	return missing
}
