package models

// SpaceKind tags every board space. Ownable kinds carry a Deed, the rest never do.
type SpaceKind string

const (
	KindGo             SpaceKind = "go"
	KindProperty       SpaceKind = "property"
	KindRailroad       SpaceKind = "railroad"
	KindUtility        SpaceKind = "utility"
	KindTax            SpaceKind = "tax"
	KindChance         SpaceKind = "chance"
	KindCommunityChest SpaceKind = "community_chest"
	KindJail           SpaceKind = "jail"
	KindFreeParking    SpaceKind = "free_parking"
	KindGoToJail       SpaceKind = "go_to_jail"
)

// Ownable reports whether spaces of this kind can be bought.
func (k SpaceKind) Ownable() bool {
	switch k {
	case KindProperty, KindRailroad, KindUtility:
		return true
	case KindGo, KindTax, KindChance, KindCommunityChest, KindJail, KindFreeParking, KindGoToJail:
		return false
	}
	panic("unknown space kind: " + string(k))
}

// Valid reports whether k is one of the known kinds.
func (k SpaceKind) Valid() bool {
	switch k {
	case KindGo, KindProperty, KindRailroad, KindUtility, KindTax, KindChance,
		KindCommunityChest, KindJail, KindFreeParking, KindGoToJail:
		return true
	}
	return false
}

// Property is one entry of the static board definition as read from JSON.
type Property struct {
	Name         string    `json:"name"`
	Type         SpaceKind `json:"type"`
	Group        string    `json:"group,omitempty"`
	Position     int       `json:"position"`
	Price        int       `json:"price,omitempty"`
	Rent         int       `json:"rent,omitempty"`
	Rents        []int     `json:"multiplied_rent,omitempty"`
	Mortgage     int       `json:"mortgage,omitempty"`
	BuildingCost int       `json:"housecost,omitempty"`
	TaxAmount    int       `json:"tax,omitempty"`
	Action       string    `json:"action,omitempty"`
}

// Special is a chance or community chest card.
type Special struct {
	Info    string `json:"info"`
	Action  string `json:"action"` // "change" balance, "move" to payload, "back" n spaces, "jail", "jail_free", "collect_each"
	Payload int    `json:"payload"`
}

// ActionIncomeTax marks the progressive tax space in a board definition.
const ActionIncomeTax = "income_tax"

const (
	SpecialChange      = "change"
	SpecialMove        = "move"
	SpecialBack        = "back"
	SpecialJail        = "jail"
	SpecialJailFree    = "jail_free"
	SpecialCollectEach = "collect_each"
)

// Deed is the ownable half of a space.
type Deed struct {
	OwnerID                 string  `json:"ownerId,omitempty"`
	Group                   string  `json:"group"`
	Price                   int     `json:"price"`
	BaseRent                int     `json:"baseRent"`
	Rents                   []int   `json:"rents"`
	BuildingCost            int     `json:"buildingCost"`
	Houses                  int     `json:"houses"`
	Hotel                   bool    `json:"hotel"`
	Mortgaged               bool    `json:"mortgaged"`
	MortgageValue           int     `json:"mortgageValue"`
	ValueMultiplier         float64 `json:"valueMultiplier"`
	IsInsured               bool    `json:"isInsured"`
	InsurancePaidUntilRound int     `json:"insurancePaidUntilRound"`
}

// Owned reports whether the deed has an owner.
func (d *Deed) Owned() bool {
	return d.OwnerID != ""
}

// Developed reports whether any building stands on the deed.
func (d *Deed) Developed() bool {
	return d.Houses > 0 || d.Hotel
}

// Space is a single board square. Position never changes after the board is built.
type Space struct {
	Position  int       `json:"position"`
	Name      string    `json:"name"`
	Kind      SpaceKind `json:"kind"`
	TaxAmount int       `json:"taxAmount,omitempty"`
	// Progressive tax spaces let the player choose between the flat amount and a share of net worth.
	Progressive bool  `json:"progressive,omitempty"`
	Deed        *Deed `json:"deed,omitempty"`
}

// Ownable reports whether the space carries a deed.
func (s *Space) Ownable() bool {
	return s.Deed != nil
}

// OwnedBy reports whether playerID holds the deed of s.
func (s *Space) OwnedBy(playerID string) bool {
	return s.Deed != nil && playerID != "" && s.Deed.OwnerID == playerID
}

// NewSpace builds a space from its board definition, attaching a deed to ownable kinds only.
func NewSpace(p Property) *Space {
	s := &Space{
		Position: p.Position,
		Name:     p.Name,
		Kind:     p.Type,
	}
	if p.Type == KindTax {
		s.TaxAmount = p.TaxAmount
		s.Progressive = p.Action == ActionIncomeTax
	}
	if !p.Type.Ownable() {
		return s
	}
	mortgage := p.Mortgage
	if mortgage == 0 {
		mortgage = p.Price / 2
	}
	rents := append([]int(nil), p.Rents...)
	s.Deed = &Deed{
		Group:           p.Group,
		Price:           p.Price,
		BaseRent:        p.Rent,
		Rents:           rents,
		BuildingCost:    p.BuildingCost,
		MortgageValue:   mortgage,
		ValueMultiplier: 1.0,
	}
	return s
}
