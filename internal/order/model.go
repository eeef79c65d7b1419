package order

// Selection is one item a test caller should order, as picked in the
// test-creation form.
type Selection struct {
	Item           string            `json:"item"`
	Customizations map[string]string `json:"customizations,omitempty"`
	Instructions   string            `json:"instructions,omitempty"`

	// Manual items are typed in by hand and are not looked up on the menu.
	// ManualCustomizations is then taken as-is.
	Manual               bool   `json:"manual,omitempty"`
	ManualCustomizations string `json:"manual_customizations,omitempty"`
}

// Line is one entry of the expected order.
type Line struct {
	Name           string   `json:"name"`
	Customizations string   `json:"customizations"`
	Instructions   string   `json:"instructions"`
	UnitPrice      float64  `json:"unit_price"`
	Priced         bool     `json:"priced"`
	Warnings       []string `json:"warnings,omitempty"`
}

type Order struct {
	Lines []Line  `json:"lines"`
	Total float64 `json:"total"`
}
