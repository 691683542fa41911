// Package xwing holds the X-Wing Miniatures card data model as it is read
// from the card data files.
package xwing

// Card categories as they appear in the category field
const (
	CategoryShip      = "ship"
	CategoryPilot     = "pilot"
	CategoryUpgrade   = "upgrade"
	CategoryCondition = "condition"
	CategoryDamage    = "damage"
)

// Card is a single printable card: a ship, pilot, upgrade, condition or
// damage card. Fields that only apply to some categories are left empty
// for the others.
type Card struct {
	Name         string        `json:"name"`
	XWS          string        `json:"xws"`
	Category     string        `json:"category"`
	Points       Value         `json:"points,omitempty"`
	Slot         string        `json:"slot,omitempty"`
	Slots        []string      `json:"slots,omitempty"`
	Limited      Flag          `json:"limited,omitempty"`
	Unique       Flag          `json:"unique,omitempty"`
	Deck         string        `json:"deck,omitempty"`
	Sides        []Side        `json:"sides,omitempty"`
	Conditions   []string      `json:"conditions,omitempty"`
	Restrictions []Restriction `json:"restrictions,omitempty"`

	// Pilot fields
	Ship         ShipRef    `json:"ship,omitempty"`
	Faction      string     `json:"faction,omitempty"`
	Skill        Value      `json:"skill,omitempty"`
	ShipOverride *ShipStats `json:"ship_override,omitempty"`

	// Ship fields
	ShipStats
	Maneuvers []string `json:"maneuvers,omitempty"`
}

// ShipStats are the printed statistics of a ship. Pilots may carry a partial
// copy in ship_override that replaces the ship's values for that pilot.
type ShipStats struct {
	Attack     Value    `json:"attack,omitempty"`
	Energy     Value    `json:"energy,omitempty"`
	Agility    Value    `json:"agility,omitempty"`
	Hull       Value    `json:"hull,omitempty"`
	Shields    Value    `json:"shields,omitempty"`
	Actions    []string `json:"actions,omitempty"`
	FiringArcs []string `json:"firing_arcs,omitempty"`
	EpicPoints Value    `json:"epic_points,omitempty"`
}

// Side is one printable face of a card
type Side struct {
	Type    string   `json:"type,omitempty"`
	Title   string   `json:"title,omitempty"`
	Ability string   `json:"ability,omitempty"`
	Text    string   `json:"text,omitempty"`
	Slots   []string `json:"slots,omitempty"`
	Attack  *Attack  `json:"attack,omitempty"`
	Charges *Charges `json:"charges,omitempty"`
	Force   *Force   `json:"force,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

// Attack is a secondary weapon printed on an upgrade
type Attack struct {
	Arc      string `json:"arc"`
	Value    Value  `json:"value"`
	MinRange Value  `json:"minrange"`
	MaxRange Value  `json:"maxrange"`
}

// Charges is a charge bar printed on a card
type Charges struct {
	Value    Value `json:"value"`
	Recovers Flag  `json:"recovers,omitempty"`
}

// Force is a force bar printed on a card
type Force struct {
	Value    Value `json:"value"`
	Recovers Flag  `json:"recovers,omitempty"`
}

// Action is an action printed on a card, optionally linked to a follow-up
type Action struct {
	Type       string  `json:"type"`
	Difficulty string  `json:"difficulty,omitempty"`
	Linked     *Action `json:"linked,omitempty"`
}

// Restriction limits which ships may equip an upgrade. Each entry uses one
// or more of the restriction kinds.
type Restriction struct {
	Action   *Action  `json:"action,omitempty"`
	Factions []string `json:"factions,omitempty"`
	Chassis  []string `json:"chassis,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
}

// FrontSide returns the first printable side, or an empty side for cards
// without any (ships).
func (c *Card) FrontSide() Side {
	if len(c.Sides) == 0 {
		return Side{}
	}
	return c.Sides[0]
}

// IsShip reports whether the card is a ship card
func (c *Card) IsShip() bool {
	return c.Category == CategoryShip
}

// IsPilot reports whether the card is a pilot card
func (c *Card) IsPilot() bool {
	return c.Category == CategoryPilot
}

// Merge returns a copy of s with every field set in override replacing the
// original value.
func (s ShipStats) Merge(override *ShipStats) ShipStats {
	if override == nil {
		return s
	}

	merged := s
	if override.Attack.IsSet() {
		merged.Attack = override.Attack
	}
	if override.Energy.IsSet() {
		merged.Energy = override.Energy
	}
	if override.Agility.IsSet() {
		merged.Agility = override.Agility
	}
	if override.Hull.IsSet() {
		merged.Hull = override.Hull
	}
	if override.Shields.IsSet() {
		merged.Shields = override.Shields
	}
	if override.Actions != nil {
		merged.Actions = override.Actions
	}
	if override.FiringArcs != nil {
		merged.FiringArcs = override.FiringArcs
	}
	if override.EpicPoints.IsSet() {
		merged.EpicPoints = override.EpicPoints
	}
	return merged
}
