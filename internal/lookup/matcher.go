package lookup

import (
	"iter"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/KirkDiggler/xwing-api/internal/markup"
)

var (
	// segmentSplit separates several bracketed lookups in one query
	segmentSplit = regexp.MustCompile(`\]\][^\[]*\[\[`)
	// shipDesignation lets short queries such as "b1" or "r2" search names
	shipDesignation = regexp.MustCompile(`^[a-z]\d`)
)

// Matcher resolves queries against an index
type Matcher struct {
	index   *Index
	printer markup.Printer
	parser  *QueryParser
}

// NewMatcher creates a matcher whose slot filters use the printer's icons
func NewMatcher(index *Index, printer markup.Printer) *Matcher {
	return &Matcher{
		index:   index,
		printer: printer,
		parser:  NewQueryParser(printer),
	}
}

// Lookup parses query and returns the matching cards as a lazy sequence.
// Every segment is parsed before anything is yielded, so a malformed
// segment fails the whole query with an InvalidArgument error.
//
// Cards are yielded at most once, in segment order and then index key
// order. Each card is followed by the condition cards it names.
func (m *Matcher) Lookup(query string) (iter.Seq[*Card], error) {
	query = html.UnescapeString(query)

	var queries []Query
	for _, segment := range segmentSplit.Split(query, -1) {
		q, err := m.parser.Parse(segment)
		if err != nil {
			return nil, err
		}
		if q.BrowseSlot != "" && len(m.candidateKeys(q)) == 0 {
			q = q.AsBrowse()
		}
		queries = append(queries, q)
	}

	return func(yield func(*Card) bool) {
		seen := make(map[int]bool)
		emit := func(card *Card) bool {
			if seen[card.ID] {
				return true
			}
			seen[card.ID] = true
			return yield(card)
		}

		for _, q := range queries {
			for _, key := range m.candidateKeys(q) {
				for _, card := range m.index.byName[key] {
					if seen[card.ID] || !m.accepts(q, card) {
						continue
					}
					if !emit(card) {
						return
					}
					for _, cond := range m.conditionsFor(card) {
						if !emit(cond) {
							return
						}
					}
				}
			}
		}
	}, nil
}

// candidateKeys lists the index keys a query may match, in key order
func (m *Matcher) candidateKeys(q Query) []string {
	if q.Empty() {
		return nil
	}
	if q.Name == "" {
		return m.index.keys
	}

	canon := Canonicalize(q.Name)
	var keys []string

	if len(canon) > 2 || shipDesignation.MatchString(canon) {
		pattern := namePattern(q.Name)
		for _, key := range m.index.keys {
			for _, card := range m.index.byName[key] {
				if pattern.MatchString(card.Name) {
					keys = append(keys, key)
					break
				}
			}
		}

		if len(keys) == 0 {
			for _, key := range m.index.keys {
				if strings.Contains(Canonicalize(key), canon) {
					keys = append(keys, key)
				}
			}
		}
	}

	if alias, ok := aliases[canon]; ok {
		if _, indexed := m.index.byName[alias]; indexed {
			keys = append(keys, alias)
		}
	}

	return keys
}

// namePattern matches the query as whole words, case-insensitively, with
// each space optional and an optional plural suffix.
func namePattern(name string) *regexp.Regexp {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(words, ` ?`) + `(?:['e]?s)?\b`)
}

func (m *Matcher) accepts(q Query, card *Card) bool {
	if q.Slot != "" && m.printer.Iconify(card.Slot, false) != q.Slot {
		return false
	}
	if q.Points != nil && !q.Points.Accepts(card) {
		return false
	}
	return true
}

// conditionsFor finds the condition cards a card names, by exact name, in
// data set order
func (m *Matcher) conditionsFor(card *Card) []*Card {
	var conds []*Card
	for _, cond := range m.index.conditions {
		if slices.Contains(card.Conditions, cond.Name) {
			conds = append(conds, cond)
		}
	}
	return conds
}
