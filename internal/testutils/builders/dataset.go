// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
)

// DatasetBuilder provides a fluent interface for building small data sets
type DatasetBuilder struct {
	dataset *xwing.Dataset
}

// NewDatasetBuilder creates an empty data set builder
func NewDatasetBuilder() *DatasetBuilder {
	return &DatasetBuilder{dataset: &xwing.Dataset{}}
}

// WithCards appends cards under a display name in a group, creating both
// as needed. Order of calls is data set order.
func (b *DatasetBuilder) WithCards(group, name string, cards ...*xwing.Card) *DatasetBuilder {
	g := b.dataset.Group(group)
	if g == nil {
		b.dataset.Groups = append(b.dataset.Groups, xwing.Group{Name: group})
		g = &b.dataset.Groups[len(b.dataset.Groups)-1]
	}

	for i := range g.Entries {
		if g.Entries[i].Name == name {
			g.Entries[i].Cards = append(g.Entries[i].Cards, cards...)
			return b
		}
	}
	g.Entries = append(g.Entries, xwing.Entry{Name: name, Cards: cards})
	return b
}

// Build returns the data set
func (b *DatasetBuilder) Build() *xwing.Dataset {
	return b.dataset
}

// CardBuilder provides a fluent interface for building cards
type CardBuilder struct {
	card *xwing.Card
}

// NewUpgrade starts an upgrade card in the given slot
func NewUpgrade(name, xws, slot string) *CardBuilder {
	return &CardBuilder{card: &xwing.Card{
		Name:     name,
		XWS:      xws,
		Category: xwing.CategoryUpgrade,
		Sides:    []xwing.Side{{Type: slot, Slots: []string{slot}}},
	}}
}

// NewShip starts a ship card
func NewShip(name, xws string) *CardBuilder {
	return &CardBuilder{card: &xwing.Card{
		Name:     name,
		XWS:      xws,
		Category: xwing.CategoryShip,
	}}
}

// NewPilot starts a pilot card flying the named ship
func NewPilot(name, xws, ship, faction string) *CardBuilder {
	return &CardBuilder{card: &xwing.Card{
		Name:     name,
		XWS:      xws,
		Category: xwing.CategoryPilot,
		Ship:     xwing.ShipRef{ship},
		Faction:  faction,
	}}
}

// NewCondition starts a condition card
func NewCondition(name, xws string) *CardBuilder {
	return &CardBuilder{card: &xwing.Card{
		Name:     name,
		XWS:      xws,
		Category: xwing.CategoryCondition,
	}}
}

// WithConditions names the condition cards this card brings into play
func (b *CardBuilder) WithConditions(names ...string) *CardBuilder {
	b.card.Conditions = names
	return b
}

// WithPoints sets the point cost
func (b *CardBuilder) WithPoints(points string) *CardBuilder {
	b.card.Points = xwing.Value(points)
	return b
}

// WithSkill sets the pilot skill
func (b *CardBuilder) WithSkill(skill string) *CardBuilder {
	b.card.Skill = xwing.Value(skill)
	return b
}

// WithSlots sets the upgrade bar
func (b *CardBuilder) WithSlots(slots ...string) *CardBuilder {
	b.card.Slots = slots
	return b
}

// WithManeuvers sets the dial
func (b *CardBuilder) WithManeuvers(dial ...string) *CardBuilder {
	b.card.Maneuvers = dial
	return b
}

// Unique marks the card unique
func (b *CardBuilder) Unique() *CardBuilder {
	b.card.Unique = true
	return b
}

// Build returns the card
func (b *CardBuilder) Build() *xwing.Card {
	return b.card
}
