// Package markup turns semantic tokens (icons, bold text, wiki links, card
// ability HTML) into the inline syntax of a chat platform or terminal.
package markup

import (
	"regexp"
	"strings"
)

// Printer renders text fragments for one output target. Card rendering only
// talks to this interface and never assumes a concrete syntax.
type Printer interface {
	// Iconify converts a token such as "Focus", "skill5" or "redFront Arc"
	// into an inline icon. specialChars keeps '-' and '_' in the icon name.
	Iconify(name string, specialChars bool) string
	Bold(text string) string
	Italics(text string) string
	// WikiLink links a card name to its wiki page
	WikiLink(name string) string
	// ConvertHTML converts card ability HTML into one or more lines
	ConvertHTML(fragment string) []string
	// IconPattern is a regular expression fragment matching exactly one
	// icon as produced by Iconify. Queries use it to find slot filters.
	IconPattern() string
}

var (
	plainIconChars   = regexp.MustCompile(`[^a-z0-9]`)
	specialIconChars = regexp.MustCompile(`[^a-z0-9\-_]`)
)

// iconRenames maps normalised token names onto the names of the installed
// icons where the two differ.
var iconRenames = map[string]string{
	"bomb":               "xbomb",
	"shield":             "xshield",
	"lock":               "targetlock",
	"rebelalliance":      "rebel",
	"galacticempire":     "imperial",
	"scumandvillainy":    "scum",
	"firstorder":         "first_order",
	"galacticrepublic":   "republic",
	"separatistalliance": "separatist",
	"astromechdroid":     "astromech",
}

// IconName normalises a token into an icon name: lower case, '+' spelled
// out, punctuation and spaces removed.
func IconName(name string, specialChars bool) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "+", "plus")
	if specialChars {
		name = specialIconChars.ReplaceAllString(name, "")
	} else {
		name = plainIconChars.ReplaceAllString(name, "")
	}
	if renamed, ok := iconRenames[name]; ok {
		return renamed
	}
	return name
}
