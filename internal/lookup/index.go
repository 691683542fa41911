// Package lookup is the card lookup engine: it indexes the card data set,
// resolves chat queries into cards and renders cards as markup lines.
//
// The index is built once and is read-only afterwards, so a single *Index
// can serve concurrent lookups and renders.
package lookup

import (
	"cmp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
)

// Card is an indexed card. The embedded data record is shared with the data
// set and never modified; everything derived at index time lives on Card.
type Card struct {
	*xwing.Card

	// ID is unique across the index and assigned in data set order
	ID int
	// Group is the data set group the card was read from
	Group string
	// Slot is the slot used for slot filters. It shadows the raw slot field,
	// which is only one of its sources.
	Slot string
	// Deck names the damage deck of damage cards
	Deck string
	// SlotBar is the sorted upgrade bar. Ships without one borrow the bar of
	// their lowest skill pilot.
	SlotBar []string
	// Stats are the ship statistics to print: a ship's own, or for a pilot
	// its ship's merged with the pilot's override.
	Stats xwing.ShipStats

	// ShipCard is the ship a pilot flies
	ShipCard *Card
	// Pilots are the pilots flying a ship, in data set order
	Pilots []*Card
}

// Index is the name index over a data set
type Index struct {
	keys       []string
	byName     map[string][]*Card
	nameToXWS  map[string]string
	cards      []*Card
	conditions []*Card
	logger     *zap.Logger
}

// IndexOption configures NewIndex
type IndexOption func(*Index)

// WithLogger sets the logger used to report data quirks found while indexing
func WithLogger(l *zap.Logger) IndexOption {
	return func(ix *Index) {
		if l != nil {
			ix.logger = l
		}
	}
}

// NewIndex builds the index. It walks groups, names and cards in data set
// order assigning IDs from 0. A pilot whose ship resolves to more than one
// ship card is a data error and fails the build.
func NewIndex(dataset *xwing.Dataset, opts ...IndexOption) (*Index, error) {
	if dataset == nil {
		return nil, errors.InvalidArgument("dataset is required")
	}

	ix := &Index{
		byName:    make(map[string][]*Card),
		nameToXWS: make(map[string]string),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ix)
	}

	for _, group := range dataset.Groups {
		for _, entry := range group.Entries {
			for _, data := range entry.Cards {
				if data == nil {
					continue
				}
				ix.add(group.Name, entry.Name, data)
			}
		}
	}

	if err := ix.resolve(); err != nil {
		return nil, err
	}

	ix.logger.Debug("card index built",
		zap.Int("cards", len(ix.cards)),
		zap.Int("names", len(ix.keys)))

	return ix, nil
}

func (ix *Index) add(group, name string, data *xwing.Card) {
	card := &Card{
		Card:  data,
		ID:    len(ix.cards),
		Group: group,
		Slot:  data.Slot,
		Deck:  data.Deck,
	}
	ix.cards = append(ix.cards, card)

	if _, ok := ix.byName[name]; !ok {
		ix.keys = append(ix.keys, name)
	}
	ix.byName[name] = append(ix.byName[name], card)

	if prev, ok := ix.nameToXWS[data.Name]; ok && prev != data.XWS {
		ix.logger.Debug("card name maps to several xws ids, keeping the last",
			zap.String("name", data.Name),
			zap.String("previous", prev),
			zap.String("xws", data.XWS))
	}
	ix.nameToXWS[data.Name] = data.XWS

	if data.Category == xwing.CategoryCondition {
		ix.conditions = append(ix.conditions, card)
	}
}

// resolve derives slots, sorted bars and pilot/ship links
func (ix *Index) resolve() error {
	for _, card := range ix.cards {
		if card.IsShip() {
			card.Stats = sortedStats(card.ShipStats)
			card.SlotBar = sortedSlots(card.Slots)
			if card.Slot == "" {
				card.Slot = card.XWS
			}
		}
	}

	// lowest numeric pilot skill seen per ship, for slot bar borrowing
	slotSkill := make(map[*Card]int)

	for _, card := range ix.cards {
		switch card.Category {
		case xwing.CategoryPilot:
			if err := ix.linkPilot(card, slotSkill); err != nil {
				return err
			}
		case xwing.CategoryCondition:
			if card.Slot == "" {
				card.Slot = "condition"
			}
		case xwing.CategoryDamage:
			if card.Slot == "" {
				card.Slot = "crit"
			}
			if card.Deck == "" {
				card.Deck = "Original"
				if strings.Contains(strings.ToLower(card.Group), "tfa") {
					card.Deck = "TFA"
				}
			}
		case xwing.CategoryUpgrade:
			if card.Slot == "" {
				if slots := card.FrontSide().Slots; len(slots) > 0 {
					card.Slot = slots[0]
				}
			}
		}
	}
	return nil
}

func (ix *Index) linkPilot(pilot *Card, slotSkill map[*Card]int) error {
	pilot.SlotBar = sortedSlots(pilot.Slots)

	ship, err := ix.shipFor(pilot)
	if err != nil {
		return err
	}
	if ship == nil {
		ix.logger.Warn("pilot has no ship card",
			zap.String("pilot", pilot.XWS),
			zap.Strings("ship", pilot.Ship))
		pilot.Stats = sortedStats(xwing.ShipStats{}.Merge(pilot.ShipOverride))
		return nil
	}

	pilot.ShipCard = ship
	ship.Pilots = append(ship.Pilots, pilot)
	pilot.Stats = sortedStats(ship.Stats.Merge(pilot.ShipOverride))
	if pilot.Slot == "" {
		pilot.Slot = ship.XWS
	}

	if len(ship.Slots) == 0 && len(pilot.SlotBar) > 0 {
		if skill, err := pilot.Skill.Int(); err == nil {
			if prev, ok := slotSkill[ship]; !ok || skill < prev {
				slotSkill[ship] = skill
				ship.SlotBar = pilot.SlotBar
			}
		}
	}
	return nil
}

// shipFor finds the single ship card a pilot flies. The pilot's ship field
// may hold an index key or a ship name.
func (ix *Index) shipFor(pilot *Card) (*Card, error) {
	if len(pilot.Ship) == 0 {
		return nil, nil
	}

	ref := pilot.Ship[0]
	key := ref
	if _, ok := ix.byName[key]; !ok {
		if xws, ok := ix.nameToXWS[ref]; ok {
			key = xws
		}
	}

	var ships []*Card
	for _, c := range ix.byName[key] {
		if c.IsShip() {
			ships = append(ships, c)
		}
	}

	switch len(ships) {
	case 0:
		return nil, nil
	case 1:
		return ships[0], nil
	default:
		names := make([]string, 0, len(ships))
		for _, s := range ships {
			names = append(names, s.Name)
		}
		return nil, errors.DataLossf("duplicate ship found: %s", strings.Join(names, ", ")).
			WithMeta("pilot", pilot.XWS).
			WithMeta("ship", key)
	}
}

// Card returns the card with the given ID
func (ix *Index) Card(id int) (*Card, bool) {
	if id < 0 || id >= len(ix.cards) {
		return nil, false
	}
	return ix.cards[id], true
}

// Len returns the number of indexed cards
func (ix *Index) Len() int {
	return len(ix.cards)
}

// Keys returns the display names in data set order
func (ix *Index) Keys() []string {
	return slices.Clone(ix.keys)
}

// Named returns the cards indexed under a display name
func (ix *Index) Named(name string) []*Card {
	return ix.byName[name]
}

// XWS returns the canonical id recorded for a card name
func (ix *Index) XWS(name string) (string, bool) {
	xws, ok := ix.nameToXWS[name]
	return xws, ok
}

func sortedStats(stats xwing.ShipStats) xwing.ShipStats {
	if len(stats.Actions) > 0 {
		stats.Actions = slices.Clone(stats.Actions)
		slices.SortStableFunc(stats.Actions, func(a, b string) int {
			return cmp.Compare(actionRank(a), actionRank(b))
		})
	}
	return stats
}

func sortedSlots(slots []string) []string {
	if len(slots) == 0 {
		return nil
	}
	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(slotRank(a), slotRank(b))
	})
	return sorted
}
