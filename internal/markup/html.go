package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// bracketIcon matches inline icon references such as [Focus] or [Koiogran Turn]
var bracketIcon = regexp.MustCompile(`\[([^\[\]]+)\]`)

type htmlFrame struct {
	tag string
	buf strings.Builder
}

// convertHTML walks an ability text fragment: <b>/<strong> become bold,
// <i>/<em> italics, <br> a line break and [Token] an icon. Other tags are
// dropped and their text kept. Empty lines are removed.
func convertHTML(p Printer, fragment string) []string {
	stack := []*htmlFrame{{}}
	top := func() *htmlFrame { return stack[len(stack)-1] }

	closeFrame := func() {
		frame := top()
		stack = stack[:len(stack)-1]
		text := frame.buf.String()
		switch frame.tag {
		case "b", "strong":
			text = p.Bold(text)
		case "i", "em":
			text = p.Italics(text)
		}
		top().buf.WriteString(text)
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.TextToken:
			text := string(z.Text())
			text = bracketIcon.ReplaceAllStringFunc(text, func(m string) string {
				return p.Iconify(m[1:len(m)-1], false)
			})
			top().buf.WriteString(text)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "br":
				top().buf.WriteString("\n")
			case tt == html.StartTagToken && isInlineStyle(tag):
				stack = append(stack, &htmlFrame{tag: tag})
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if len(stack) > 1 && top().tag == tag {
				closeFrame()
			}
		}
	}

	for len(stack) > 1 {
		closeFrame()
	}

	var lines []string
	for _, line := range strings.Split(stack[0].buf.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isInlineStyle(tag string) bool {
	switch tag {
	case "b", "strong", "i", "em":
		return true
	}
	return false
}
