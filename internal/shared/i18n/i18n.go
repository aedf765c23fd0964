// Package i18n renders the bot's user-facing strings.
package i18n

import (
	"log/slog"

	"github.com/flosch/pongo2/v6"
	"github.com/samber/oops"
	"golang.org/x/text/language"
)

// DefaultLanguage is used for unknown or unsupported language codes
const DefaultLanguage = "uz"

var supported = []language.Tag{
	language.Uzbek,
	language.Russian,
	language.English,
}

// Localizer holds the compiled templates of every supported language
type Localizer struct {
	templates map[string]map[string]*pongo2.Template
	matcher   language.Matcher
}

// New compiles the string catalog
func New() (*Localizer, error) {
	l := &Localizer{
		templates: make(map[string]map[string]*pongo2.Template, len(catalog)),
		matcher:   language.NewMatcher(supported),
	}
	for lang, strings := range catalog {
		l.templates[lang] = make(map[string]*pongo2.Template, len(strings))
		for key, src := range strings {
			tpl, err := pongo2.FromString(src)
			if err != nil {
				return nil, oops.With("language", lang, "key", key).Wrap(err)
			}
			l.templates[lang][key] = tpl
		}
	}
	return l, nil
}

// Normalize maps a language code such as "ru-RU" onto a supported one
func (l *Localizer) Normalize(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	_, index, confidence := l.matcher.Match(tag)
	if confidence == language.No {
		return DefaultLanguage
	}
	base, _ := supported[index].Base()
	return base.String()
}

// Render returns the text for key in lang. An unknown key renders as the
// key itself; rendering never fails.
func (l *Localizer) Render(lang, key string, params map[string]any) string {
	tpl, ok := l.templates[l.Normalize(lang)][key]
	if !ok {
		tpl, ok = l.templates[DefaultLanguage][key]
	}
	if !ok {
		return key
	}

	out, err := tpl.Execute(pongo2.Context(params))
	if err != nil {
		slog.Warn("Failed to render string", "language", lang, "key", key, "error", err)
		return key
	}
	return out
}
