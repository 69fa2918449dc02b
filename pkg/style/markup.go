package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles
type MarkupParser struct {
	styles   map[string]lipgloss.Style
	patterns map[string]*regexp.Regexp
}

// NewMarkupParser creates a new markup parser with default styles
func NewMarkupParser() *MarkupParser {
	p := &MarkupParser{
		styles:   map[string]lipgloss.Style{},
		patterns: map[string]*regexp.Regexp{},
	}
	for tag, s := range map[string]lipgloss.Style{
		"title":    TitleStyle,
		"success":  SuccessStyle,
		"error":    ErrorStyle,
		"warning":  WarningStyle,
		"info":     InfoStyle,
		"code":     CodeStyle,
		"path":     PathStyle,
		"muted":    MutedStyle,
		"bold":     lipgloss.NewStyle().Bold(true),
		"plugin":   PluginStyle,
		"template": TemplateStyle,
		"output":   OutputStyle,
		"revision": RevisionStyle,
	} {
		p.AddStyle(tag, s)
	}
	return p
}

// AddStyle registers or replaces the style for tag
func (p *MarkupParser) AddStyle(tag string, style lipgloss.Style) {
	p.styles[tag] = style
	p.patterns[tag] = regexp.MustCompile(`\[` + regexp.QuoteMeta(tag) + `\](.*?)\[/` + regexp.QuoteMeta(tag) + `\]`)
}

// Render processes markup text and returns styled output. Nested tags are
// handled by repeating until nothing changes.
func (p *MarkupParser) Render(text string) string {
	result := text
	for {
		before := result
		for tag, pattern := range p.patterns {
			s := p.styles[tag]
			result = pattern.ReplaceAllStringFunc(result, func(match string) string {
				return s.Render(pattern.FindStringSubmatch(match)[1])
			})
		}
		if result == before {
			return result
		}
	}
}

// Strip removes markup tags, leaving the plain text
func (p *MarkupParser) Strip(text string) string {
	result := text
	for tag := range p.patterns {
		result = strings.ReplaceAll(result, "["+tag+"]", "")
		result = strings.ReplaceAll(result, "[/"+tag+"]", "")
	}
	return result
}

var defaultParser = NewMarkupParser()

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}

// Strip is a convenience function using the default parser
func Strip(text string) string {
	return defaultParser.Strip(text)
}
