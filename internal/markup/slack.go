package markup

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const wikiBaseURL = "https://xwing-miniatures-second-edition.fandom.com/wiki/"

// SlackPrinter renders Slack mrkdwn: :icon: emoji, *bold*, _italics_ and
// <url|text> links.
type SlackPrinter struct{}

// NewSlackPrinter returns a Slack printer
func NewSlackPrinter() *SlackPrinter {
	return &SlackPrinter{}
}

// Iconify renders :name:
func (p *SlackPrinter) Iconify(name string, specialChars bool) string {
	return ":" + IconName(name, specialChars) + ":"
}

// Bold renders *text*
func (p *SlackPrinter) Bold(text string) string {
	return "*" + text + "*"
}

// Italics renders _text_
func (p *SlackPrinter) Italics(text string) string {
	return "_" + text + "_"
}

// WikiLink renders <url|name>
func (p *SlackPrinter) WikiLink(name string) string {
	return fmt.Sprintf("<%s%s|%s>", wikiBaseURL, wikiPage(name), name)
}

// ConvertHTML converts ability HTML to mrkdwn lines
func (p *SlackPrinter) ConvertHTML(fragment string) []string {
	return convertHTML(p, fragment)
}

// IconPattern matches :name:
func (p *SlackPrinter) IconPattern() string {
	return `:[^:\s]+:`
}

var (
	wingSuffix = regexp.MustCompile(`-wing`)
	trailingPS = regexp.MustCompile(`_\([-+]1\)`)
)

// wikiPage maps a card name onto the wiki page naming convention
func wikiPage(name string) string {
	page := strings.ReplaceAll(name, " ", "_")
	page = wingSuffix.ReplaceAllString(page, "-Wing")
	page = strings.ReplaceAll(page, "/V", "/v")
	page = strings.ReplaceAll(page, "/X", "/x")
	page = trailingPS.ReplaceAllString(page, "")
	return url.PathEscape(page)
}
