package menu

import "encoding/json"

// Upstream is the document returned by the restaurant-data service
// (GET /v1/restaurant/get-restaurant-info/{phone}).
type Upstream struct {
	Restaurant *Restaurant `json:"restaurant"`

	// Raw holds the exact bytes the document was decoded from.
	Raw json.RawMessage `json:"-"`
}

func (u *Upstream) UnmarshalJSON(b []byte) error {
	type plain Upstream
	var p plain
	if err := decodeObject(b, &p); err != nil {
		*u = Upstream{}
		return nil
	}
	p.Raw = append(json.RawMessage(nil), b...)
	*u = Upstream(p)
	return nil
}

// Restaurant is the restaurant section of the upstream document. Only the
// menu fields feed normalization; the rest is read by the restaurant package.
type Restaurant struct {
	Name                Text                     `json:"name"`
	RestaurantID        Text                     `json:"restaurantId"`
	Address             Text                     `json:"address"`
	PhonelineNumber     Text                     `json:"phonelineNumber"`
	Greetings           Greetings                `json:"greetings"`
	Categories          List[Category]           `json:"categories"`
	CustomizationGroups List[CustomizationGroup] `json:"customizationGroups"`
	Items               List[UpstreamItem]       `json:"items"`

	OpeningHours          List[OpeningPeriod] `json:"openingHours"`
	RestaurantOrderStatus Text                `json:"restaurantOrderStatus"`
	Announcement          Text                `json:"announcement"`
	HasDeliveryService    Flag                `json:"hasDeliveryService"`
	Contacts              Contacts            `json:"contacts"`
	FAQs                  any                 `json:"faqs,omitempty"`
	DeliveryConfig        any                 `json:"deliveryConfig,omitempty"`
}

func (r *Restaurant) UnmarshalJSON(b []byte) error {
	type plain Restaurant
	var p plain
	if err := decodeObject(b, &p); err != nil {
		*r = Restaurant{}
		return nil
	}
	*r = Restaurant(p)
	return nil
}

type Greetings struct {
	Open   Text `json:"open"`
	Closed Text `json:"closed"`
}

func (g *Greetings) UnmarshalJSON(b []byte) error {
	type plain Greetings
	var p plain
	if err := decodeObject(b, &p); err != nil {
		*g = Greetings{}
		return nil
	}
	*g = Greetings(p)
	return nil
}

type Contacts struct {
	ForwardPhone Text `json:"forwardPhone"`
}

func (c *Contacts) UnmarshalJSON(b []byte) error {
	type plain Contacts
	var p plain
	if err := decodeObject(b, &p); err != nil {
		*c = Contacts{}
		return nil
	}
	*c = Contacts(p)
	return nil
}

type Category struct {
	ID   Text `json:"id"`
	Name Text `json:"name"`
}

func (c *Category) UnmarshalJSON(b []byte) error {
	type plain Category
	return decodeObject(b, (*plain)(c))
}

// Rules bound how many options of a customization a caller may pick.
type Rules struct {
	MinSelect Number `json:"minSelect"`
	MaxSelect Number `json:"maxSelect"`
}

func (r *Rules) UnmarshalJSON(b []byte) error {
	type plain Rules
	var p plain
	if err := decodeObject(b, &p); err != nil {
		*r = Rules{}
		return nil
	}
	*r = Rules(p)
	return nil
}

// CustomizationGroup is either a top-level group referenced by id or a
// customization embedded directly in an item. Embedded customizations may
// carry Required/MaxSelect instead of Rules.
type CustomizationGroup struct {
	ID                  Text                 `json:"id"`
	Name                Text                 `json:"name"`
	CustomerInstruction Text                 `json:"customerInstruction"`
	Options             List[UpstreamOption] `json:"options"`
	Rules               Rules                `json:"rules"`
	Required            Flag                 `json:"required"`
	MaxSelect           Number               `json:"maxSelect"`
}

func (g *CustomizationGroup) UnmarshalJSON(b []byte) error {
	type plain CustomizationGroup
	return decodeObject(b, (*plain)(g))
}

type UpstreamOption struct {
	Name  Text   `json:"name"`
	Price Number `json:"price"`
}

func (o *UpstreamOption) UnmarshalJSON(b []byte) error {
	type plain UpstreamOption
	return decodeObject(b, (*plain)(o))
}

type UpstreamItem struct {
	Name             Text                     `json:"name"`
	Price            Number                   `json:"price"`
	CategoryIDs      List[Text]               `json:"categoryIds"`
	CustomizationIDs List[Text]               `json:"customizationIds"`
	Customizations   List[CustomizationGroup] `json:"customizations"`
}

func (i *UpstreamItem) UnmarshalJSON(b []byte) error {
	type plain UpstreamItem
	return decodeObject(b, (*plain)(i))
}

// SourceKind tags where an item's customizations come from.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceByReference
	SourceEmbedded
)

// CustomizationSource is the resolved customization shape of one item: either
// group ids to look up, or groups embedded in the item itself.
type CustomizationSource struct {
	Kind     SourceKind
	IDs      []Text
	Embedded []CustomizationGroup
}

// Source picks the item's customization shape. References win over embedded
// customizations when both are present.
func (i UpstreamItem) Source() CustomizationSource {
	switch {
	case len(i.CustomizationIDs) > 0:
		return CustomizationSource{Kind: SourceByReference, IDs: i.CustomizationIDs}
	case len(i.Customizations) > 0:
		return CustomizationSource{Kind: SourceEmbedded, Embedded: i.Customizations}
	default:
		return CustomizationSource{Kind: SourceNone}
	}
}

// OpeningPeriod is either the newer slot-based shape or the legacy shape
// with StartTime/EndTime on the period itself.
type OpeningPeriod struct {
	Days      List[Text] `json:"days"`
	Slots     List[Slot] `json:"slots"`
	StartTime Text       `json:"startTime"`
	EndTime   Text       `json:"endTime"`

	hasSlots bool
}

func (p *OpeningPeriod) UnmarshalJSON(b []byte) error {
	type plain OpeningPeriod
	var v plain
	if err := decodeObject(b, &v); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	_ = json.Unmarshal(b, &keys)
	_, v.hasSlots = keys["slots"]
	*p = OpeningPeriod(v)
	return nil
}

// HasSlots reports whether the period uses the slot-based shape.
func (p OpeningPeriod) HasSlots() bool {
	return p.hasSlots || len(p.Slots) > 0
}

type Slot struct {
	StartTime Text `json:"startTime"`
	EndTime   Text `json:"endTime"`
}

func (s *Slot) UnmarshalJSON(b []byte) error {
	type plain Slot
	return decodeObject(b, (*plain)(s))
}
