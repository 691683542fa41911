package lookup

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/markup"
)

// ErrPointsNeedSlot is the reply to a points search without a slot
const ErrPointsNeedSlot = "You need to specify a slot to search by points value."

var (
	pointsClause  = regexp.MustCompile(`^(.*?)\s*(==|!=|<=|>=|=|<|>)\s*(.*?)$`)
	nonCanonical  = regexp.MustCompile(`[^a-z0-9]`)
	decimal       = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	knownSlotKeys = buildSlotKeys()
)

func buildSlotKeys() map[string]string {
	keys := make(map[string]string)
	for _, slots := range [][]string{slotOrder, browseOnlySlots} {
		for _, slot := range slots {
			keys[Canonicalize(slot)] = slot
			keys[markup.IconName(slot, false)] = slot
		}
	}
	return keys
}

// Canonicalize reduces a name to the form used for fuzzy comparison:
// entities decoded, lower case, letters and digits only.
func Canonicalize(s string) string {
	s = html.UnescapeString(s)
	s = strings.ToLower(s)
	return nonCanonical.ReplaceAllString(s, "")
}

// Query is one parsed [[...]] segment
type Query struct {
	// Slot is the slot filter in icon form, empty when unfiltered
	Slot string
	// Name is the free text to resolve against card names
	Name string
	// Points restricts results by point cost
	Points *PointsFilter
	// BrowseSlot is set when Name is also a slot name. The query browses
	// that slot only when no card name matches.
	BrowseSlot string
}

// AsBrowse turns a bare slot word into a browse of its slot
func (q Query) AsBrowse() Query {
	return Query{Slot: q.BrowseSlot}
}

// Empty reports whether the query can match nothing
func (q Query) Empty() bool {
	return q.Slot == "" && q.Name == "" && q.Points == nil
}

// QueryParser parses query segments for one printer's icon syntax
type QueryParser struct {
	printer markup.Printer
	prefix  *regexp.Regexp
	suffix  *regexp.Regexp
}

// NewQueryParser builds a parser that recognises the printer's icons as
// slot filters.
func NewQueryParser(printer markup.Printer) *QueryParser {
	icon := printer.IconPattern()
	return &QueryParser{
		printer: printer,
		prefix:  regexp.MustCompile(`^\s*(` + icon + `)\s*(.*?)\s*$`),
		suffix:  regexp.MustCompile(`^\s*(.*?)\s*(` + icon + `)\s*$`),
	}
}

// Parse reads one segment:
//
//	[icon] name [icon]
//	[icon] [slot name] op number [icon]
//	icon | slot name
//
// The first icon found is the slot filter. A lone icon browses the whole
// slot, and so does a bare slot name that matches no card name.
func (p *QueryParser) Parse(segment string) (Query, error) {
	var q Query
	rest := strings.TrimSpace(segment)

	if m := p.prefix.FindStringSubmatch(rest); m != nil {
		q.Slot = strings.ToLower(m[1])
		rest = m[2]
	}
	if m := p.suffix.FindStringSubmatch(rest); m != nil {
		if q.Slot == "" {
			q.Slot = strings.ToLower(m[2])
		}
		rest = m[1]
	}

	if m := pointsClause.FindStringSubmatch(rest); m != nil {
		return p.parsePoints(q, m[1], m[2], m[3])
	}

	if slot, ok := knownSlotKeys[Canonicalize(rest)]; ok && q.Slot == "" {
		q.BrowseSlot = p.printer.Iconify(slot, false)
	}

	q.Name = rest
	return q, nil
}

func (p *QueryParser) parsePoints(q Query, leading, op, operand string) (Query, error) {
	if leading != "" {
		slot, ok := knownSlotKeys[Canonicalize(leading)]
		if !ok {
			return Query{}, errors.InvalidArgumentf("invalid points filter: unknown slot %q", leading)
		}
		if q.Slot == "" {
			q.Slot = p.printer.Iconify(slot, false)
		}
	}
	if q.Slot == "" {
		return Query{}, errors.InvalidArgument(ErrPointsNeedSlot)
	}

	parsedOp, err := ParseOperator(op)
	if err != nil {
		return Query{}, err
	}
	if !decimal.MatchString(operand) {
		return Query{}, errors.InvalidArgumentf("invalid points filter: %q is not a number", operand)
	}
	value, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		return Query{}, errors.InvalidArgumentf("invalid points filter: %q is not a number", operand)
	}

	q.Points = &PointsFilter{Op: parsedOp, Operand: value}
	return q, nil
}

// ParseQuery parses one segment using the printer's icon syntax
func ParseQuery(segment string, printer markup.Printer) (Query, error) {
	return NewQueryParser(printer).Parse(segment)
}
