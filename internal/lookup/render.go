package lookup

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/markup"
)

// DefaultMaxResults is the most cards a single lookup renders
const DefaultMaxResults = 10

// TooManyResults is the reply when a lookup matches more than limit cards
func TooManyResults(limit int) string {
	return fmt.Sprintf("Your search matched more than %d cards, please be more specific.", limit)
}

// Renderer turns indexed cards into markup lines
type Renderer struct {
	printer markup.Printer
}

// NewRenderer creates a renderer for the given printer
func NewRenderer(printer markup.Printer) *Renderer {
	return &Renderer{printer: printer}
}

// Result is a rendered lookup
type Result struct {
	Lines   []string
	Matched int
	TooMany bool
}

// HandleLookup renders the cards of a lookup. When more than limit cards
// match, nothing is rendered and the single line asks for a narrower
// search. The sequence is consumed only as far as limit+1 cards.
func HandleLookup(cards iter.Seq[*Card], r *Renderer, limit int) Result {
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	var matched []*Card
	for card := range cards {
		matched = append(matched, card)
		if len(matched) > limit {
			return Result{
				Lines:   []string{TooManyResults(limit)},
				Matched: len(matched),
				TooMany: true,
			}
		}
	}

	var lines []string
	for _, card := range matched {
		lines = append(lines, r.PrintCard(card)...)
	}
	return Result{Lines: lines, Matched: len(matched)}
}

// PrintCard renders one card. Every section is optional and skipped when
// the card has nothing to show for it.
func (r *Renderer) PrintCard(card *Card) []string {
	front := card.FrontSide()

	lines := []string{r.header(card, front)}

	if restrictions := r.restrictions(card); restrictions != "" {
		lines = append(lines, restrictions)
	}
	if card.IsShip() || card.IsPilot() {
		if stats := r.shipStats(card); stats != "" {
			lines = append(lines, stats)
		}
	}
	if card.IsShip() {
		lines = append(lines, r.maneuvers(card.Maneuvers)...)
		lines = append(lines, r.pilots(card)...)
	}
	if front.Ability != "" {
		lines = append(lines, r.printer.ConvertHTML(front.Ability)...)
	}
	if front.Text != "" {
		lines = append(lines, r.printer.Italics(front.Text))
	}
	if combat := r.combat(front); combat != "" {
		lines = append(lines, combat)
	}

	return lines
}

func (r *Renderer) header(card *Card, front xwing.Side) string {
	var b strings.Builder
	for _, slot := range front.Slots {
		b.WriteString(r.printer.Iconify(slot, false))
	}
	if card.Limited {
		b.WriteString(" • ")
	} else {
		b.WriteString(" ")
	}
	b.WriteString(r.printer.Bold(r.formatName(card)))
	if card.Points.IsSet() {
		fmt.Fprintf(&b, " [%s]", card.Points)
	}
	if card.Deck != "" {
		fmt.Fprintf(&b, " (%s)", card.Deck)
	}
	return b.String()
}

// formatName links the card to the wiki. Ships and damage cards have no
// page of their own.
func (r *Renderer) formatName(card *Card) string {
	if card.Category == xwing.CategoryShip || card.Category == xwing.CategoryDamage {
		return card.Name
	}
	return r.printer.WikiLink(card.Name)
}

func (r *Renderer) restrictions(card *Card) string {
	var parts []string

	if len(card.Restrictions) > 0 {
		var kinds []string
		for _, restriction := range card.Restrictions {
			if restriction.Action != nil {
				kinds = append(kinds, r.printAction(*restriction.Action))
			}
			if len(restriction.Factions) > 0 {
				factions := make([]string, 0, len(restriction.Factions))
				for _, f := range restriction.Factions {
					if short, ok := factionDisplay[f]; ok {
						f = short
					}
					factions = append(factions, f)
				}
				kinds = append(kinds, strings.Join(factions, " or "))
			}
			if len(restriction.Chassis) > 0 {
				chassis := make([]string, 0, len(restriction.Chassis))
				for _, c := range restriction.Chassis {
					chassis = append(chassis, r.printer.Iconify(c, false))
				}
				kinds = append(kinds, strings.Join(chassis, " or "))
			}
			if len(restriction.Sizes) > 0 {
				kinds = append(kinds, strings.Join(restriction.Sizes, " or ")+" ship")
			}
		}
		if len(kinds) > 0 {
			parts = append(parts, "Restrictions: "+strings.Join(kinds, " "))
		}
	}

	if !card.IsPilot() && len(card.Ship) > 0 {
		parts = append(parts, shipRestriction(card.Ship))
	}

	return strings.Join(parts, " | ")
}

// shipRestriction names the ships an upgrade is limited to. Ships sharing a
// whole-word common name ("TIE Advanced x1", "TIE Advanced v1") collapse into it.
func shipRestriction(ships []string) string {
	if len(ships) > 1 {
		common := strings.TrimSpace(longestCommonSubstring(ships))
		if common != "" && containsWord(ships[0], common) {
			return common + " only."
		}
	}
	return strings.Join(ships, " and ") + " only."
}

// containsWord reports whether word occurs in s with no letter, digit or
// underscore directly before or after it.
func containsWord(s, word string) bool {
	for offset := 0; offset < len(s); {
		i := strings.Index(s[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func longestCommonSubstring(values []string) string {
	if len(values) == 0 {
		return ""
	}
	first := values[0]
	best := ""
	for i := 0; i < len(first); i++ {
		for j := len(first); j > i+len(best); j-- {
			candidate := first[i:j]
			if containedInAll(values[1:], candidate) {
				best = candidate
				break
			}
		}
	}
	return best
}

func containedInAll(values []string, s string) bool {
	for _, v := range values {
		if !strings.Contains(v, s) {
			return false
		}
	}
	return true
}

// shipStats renders faction, stat values, arcs, actions, slot bar and epic
// points, skipping empty segments.
func (r *Renderer) shipStats(card *Card) string {
	p := r.printer
	stats := card.Stats
	var segments []string

	var values strings.Builder
	if card.IsPilot() {
		if card.Faction != "" {
			segments = append(segments, p.Iconify(card.Faction, false))
		}
		if card.Skill.IsSet() {
			values.WriteString(p.Iconify("skill"+card.Skill.String(), false))
		}
	}
	for _, stat := range []struct {
		icon  string
		value xwing.Value
	}{
		{"attack", stats.Attack},
		{"energy", stats.Energy},
		{"agility", stats.Agility},
		{"hull", stats.Hull},
		{"shield", stats.Shields},
	} {
		if stat.value.IsSet() {
			values.WriteString(p.Iconify(stat.icon+stat.value.String(), false))
		}
	}
	segments = append(segments, values.String())

	var arcs strings.Builder
	for _, arc := range stats.FiringArcs {
		if icon, ok := arcIcons[arc]; ok {
			arcs.WriteString(p.Iconify("attack-"+icon, true))
		}
	}
	segments = append(segments, arcs.String())

	actions := make([]string, 0, len(stats.Actions))
	for _, action := range stats.Actions {
		actions = append(actions, p.Iconify(action, false))
	}
	segments = append(segments, strings.Join(actions, " "))

	var slots strings.Builder
	bar := card.SlotBar
	if card.IsPilot() && len(bar) == 0 && card.ShipCard != nil {
		bar = card.ShipCard.SlotBar
	}
	for _, slot := range bar {
		slots.WriteString(p.Iconify(slot, false))
	}
	segments = append(segments, slots.String())

	if stats.EpicPoints.IsSet() {
		segments = append(segments, p.Iconify("epic", false)+stats.EpicPoints.String())
	}

	segments = slices.DeleteFunc(segments, func(s string) bool { return s == "" })
	return strings.Join(segments, " | ")
}

type speedGroup struct {
	speed string
	moves map[byte]byte
}

// maneuvers renders the dial fastest first, one line per speed. Columns for
// moves absent from the whole dial are omitted; gaps get a blank icon.
func (r *Renderer) maneuvers(dial []string) []string {
	if len(dial) == 0 {
		return nil
	}

	used := make(map[byte]bool)
	var groups []*speedGroup
	bySpeed := make(map[string]*speedGroup)

	for _, m := range dial {
		if len(m) < 3 {
			continue
		}
		speed, move, difficulty := m[:len(m)-2], m[len(m)-2], m[len(m)-1]
		if move == stopManeuver.code {
			used['F'] = true
		}
		used[move] = true

		group, ok := bySpeed[speed]
		if !ok {
			group = &speedGroup{speed: speed, moves: make(map[byte]byte)}
			bySpeed[speed] = group
			groups = append(groups, group)
		}
		group.moves[move] = difficulty
	}

	blank := r.printer.Iconify("blank", false)
	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		var b strings.Builder
		b.WriteString(group.speed + " ")
		for _, mv := range maneuverKey {
			if !used[mv.code] {
				continue
			}
			difficulty, ok := group.moves[mv.code]
			icon := mv.icon
			if group.speed == "0" && mv.code == 'F' {
				icon = stopManeuver.icon
				if stop, isStop := group.moves[stopManeuver.code]; isStop {
					difficulty, ok = stop, true
				}
			}
			if !ok {
				b.WriteString(blank)
				continue
			}
			b.WriteString(r.printer.Iconify(difficultyKey[difficulty]+icon, false))
		}
		lines = append(lines, b.String())
	}

	slices.Reverse(lines)
	return lines
}

// pilotSkillKey sorts pilots by skill; "?" and other non-numeric skills
// sort after every printed value.
func pilotSkillKey(pilot *Card) int {
	if skill, err := pilot.Skill.Int(); err == nil {
		return skill
	}
	return 15
}

// pilots lists a ship's pilots grouped by faction, lowest skill first
func (r *Renderer) pilots(ship *Card) []string {
	if len(ship.Pilots) == 0 {
		return nil
	}

	sorted := slices.Clone(ship.Pilots)
	slices.SortStableFunc(sorted, func(a, b *Card) int {
		return cmp.Compare(pilotSkillKey(a), pilotSkillKey(b))
	})

	var factions []string
	byFaction := make(map[string][]string)
	for _, pilot := range sorted {
		if pilot.Skill.String() == "?" {
			continue
		}

		var b strings.Builder
		b.WriteString(r.printer.Iconify("skill"+pilot.Skill.String(), false))
		if pilot.Unique {
			b.WriteString("• ")
		}
		b.WriteString(r.formatName(pilot))
		if slices.Contains(pilot.Slots, "Elite") {
			b.WriteString(" " + r.printer.Iconify("elite", false))
		}
		fmt.Fprintf(&b, " [%s]", pilot.Points)

		if _, ok := byFaction[pilot.Faction]; !ok {
			factions = append(factions, pilot.Faction)
		}
		byFaction[pilot.Faction] = append(byFaction[pilot.Faction], b.String())
	}

	lines := make([]string, 0, len(factions))
	for _, faction := range factions {
		lines = append(lines, r.printer.Iconify(faction, false)+" "+strings.Join(byFaction[faction], ", "))
	}
	return lines
}

// combat renders the attack, charge, force and action segments of a card
// side joined by " | ".
func (r *Renderer) combat(side xwing.Side) string {
	p := r.printer
	var segments []string

	if atk := side.Attack; atk != nil {
		var b strings.Builder
		b.WriteString(p.Iconify("red"+atk.Arc, false))
		b.WriteString(p.Iconify("attack"+atk.Value.String(), false))
		if slices.Equal(side.Slots, []string{"Missile"}) || slices.Equal(side.Slots, []string{"Torpedo"}) {
			b.WriteString(p.Iconify("rangebonusindicator", false))
		}
		fmt.Fprintf(&b, "%s-%s", atk.MinRange, atk.MaxRange)
		segments = append(segments, b.String())
	}

	if charges := side.Charges; charges != nil {
		segment := p.Iconify("orangecharge", false) + p.Iconify("charge"+charges.Value.String(), false)
		if charges.Recovers {
			segment += p.Iconify("orangerecurring", false)
		}
		segments = append(segments, segment)
	}

	if force := side.Force; force != nil {
		segment := p.Iconify("purpleforce", false) + p.Iconify("forceplus"+force.Value.String(), false)
		if force.Recovers {
			segment += p.Iconify("purplerecurring", false)
		}
		segments = append(segments, segment)
	}

	if len(side.Actions) > 0 {
		var b strings.Builder
		for _, action := range side.Actions {
			b.WriteString(r.printAction(action))
		}
		segments = append(segments, b.String())
	}

	return strings.Join(segments, " | ")
}

// printAction renders an action icon coloured by difficulty, followed by
// its linked action if any.
func (r *Renderer) printAction(action xwing.Action) string {
	difficulty := action.Difficulty
	if difficulty == "White" {
		difficulty = ""
	}
	out := r.printer.Iconify(difficulty+action.Type, false)
	if action.Linked != nil {
		out += r.printer.Iconify("linked", false) + r.printAction(*action.Linked)
	}
	return out
}
