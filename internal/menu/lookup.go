package menu

// FindItemDetails returns the first item named exactly itemName, with its
// customizations. The match is case-sensitive; a miss returns nil.
func FindItemDetails(m *NormalizedMenu, itemName string) *ItemDetails {
	if m == nil {
		return nil
	}

	for _, item := range m.ItemList {
		if item.Name != itemName {
			continue
		}

		customizations := m.CustomizationDict[itemName]
		if customizations == nil {
			customizations = []Customization{}
		}
		return &ItemDetails{
			Name:           itemName,
			BasePrice:      item.Price,
			Customizations: customizations,
		}
	}

	return nil
}
