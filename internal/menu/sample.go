package menu

import "encoding/json"

// sampleJSON is the "Curry Delights" restaurant used by the demo and by tests
// when no restaurant-data service is reachable.
const sampleJSON = `{
  "restaurant": {
    "name": "Curry Delights",
    "restaurantId": "curry123",
    "address": "123 Flavor Street, Tasteville",
    "phonelineNumber": "+19202808073",
    "greetings": {
      "open": "Thank you for calling Curry Delights! How can I help you today?",
      "closed": "Sorry, Curry Delights is currently closed."
    },
    "openingHours": [
      {"days": ["Mon", "Tue", "Wed", "Thu", "Fri"], "slots": [{"startTime": "11:00", "endTime": "22:00"}]},
      {"days": ["Sat", "Sun"], "slots": [{"startTime": "12:00", "endTime": "02:00"}]}
    ],
    "categories": [
      {"id": "cat1", "name": "Appetizers"},
      {"id": "cat2", "name": "Main Course"},
      {"id": "cat3", "name": "Desserts"}
    ],
    "customizationGroups": [
      {
        "id": "cust1",
        "customerInstruction": "Veg or Non Veg",
        "options": [{"name": "Veg", "price": 0}, {"name": "Non Veg", "price": 1.12}],
        "rules": {"minSelect": 1, "maxSelect": 1}
      },
      {
        "id": "cust2",
        "customerInstruction": "Quantity",
        "options": [{"name": "Regular (6 pcs)", "price": 0}, {"name": "Large (10 pcs)", "price": 5.00}],
        "rules": {"minSelect": 0, "maxSelect": 1}
      },
      {
        "id": "cust3",
        "customerInstruction": "Extra Malai",
        "options": [{"name": "No Extra Malai", "price": 0}, {"name": "Extra Malai (more creamy)", "price": 1.12}],
        "rules": {"minSelect": 0, "maxSelect": 1}
      },
      {
        "id": "cust4",
        "customerInstruction": "Spice Level",
        "options": [{"name": "Mild", "price": 0}, {"name": "Medium", "price": 0}, {"name": "Hot", "price": 0.50}],
        "rules": {"minSelect": 0, "maxSelect": 1}
      }
    ],
    "items": [
      {"name": "Tandoori Momo", "price": 10.99, "categoryIds": ["cat1"], "customizationIds": ["cust1", "cust2"]},
      {"name": "Soya Malai Chaap-Must Try", "price": 12.99, "categoryIds": ["cat2"], "customizationIds": ["cust3", "cust4"]},
      {"name": "Butter Chicken", "price": 14.99, "categoryIds": ["cat2"], "customizationIds": ["cust4"]},
      {"name": "Paneer Tikka", "price": 11.99, "categoryIds": ["cat1"], "customizationIds": []}
    ]
  }
}`

// SampleDocument returns a fresh copy of the built-in sample restaurant.
func SampleDocument() *Upstream {
	var doc Upstream
	if err := json.Unmarshal([]byte(sampleJSON), &doc); err != nil {
		panic("menu: sample document: " + err.Error())
	}
	return &doc
}
