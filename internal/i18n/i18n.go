// Package i18n resolves the locale of a request and serves the translated
// strings used by validation messages and confirmation emails.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var catalogFS embed.FS

var supportedLocales = map[string]func() locales.Translator{
	"en": en.New,
	"fr": fr.New,
}

// Localizer negotiates locales and translates catalog keys.
type Localizer struct {
	uni      *ut.UniversalTranslator
	codes    []string
	matcher  language.Matcher
	fallback string
}

// New loads the embedded catalogs. defaultLocale is used whenever neither
// an explicit locale nor Accept-Language yields a supported one.
func New(defaultLocale string) (*Localizer, error) {
	defaultLocale = strings.ToLower(defaultLocale)
	newDefault, ok := supportedLocales[defaultLocale]
	if !ok {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
	}

	// the matcher falls back to the first tag, so the default goes first
	codes := []string{defaultLocale}
	for code := range supportedLocales {
		if code != defaultLocale {
			codes = append(codes, code)
		}
	}

	translators := make([]locales.Translator, 0, len(codes))
	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		translators = append(translators, supportedLocales[code]())
		tags = append(tags, language.MustParse(code))
	}

	l := &Localizer{
		uni:      ut.New(newDefault(), translators...),
		codes:    codes,
		matcher:  language.NewMatcher(tags),
		fallback: defaultLocale,
	}

	for _, code := range codes {
		if err := l.loadCatalog(code); err != nil {
			return nil, err
		}
	}

	return l, nil
}

func (l *Localizer) loadCatalog(code string) error {
	data, err := catalogFS.ReadFile("locales/" + code + ".json")
	if err != nil {
		return fmt.Errorf("missing catalog for %s: %w", code, err)
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("invalid catalog for %s: %w", code, err)
	}

	trans, _ := l.uni.GetTranslator(code)
	for key, text := range flatten("", tree) {
		if err := trans.Add(key, text, true); err != nil {
			return fmt.Errorf("catalog %s, key %s: %w", code, key, err)
		}
	}
	return nil
}

// flatten turns nested catalog objects into dotted keys.
func flatten(prefix string, tree map[string]interface{}) map[string]string {
	out := make(map[string]string)
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]interface{}:
			for fk, fv := range flatten(key, val) {
				out[fk] = fv
			}
		}
	}
	return out
}

// Default returns the fallback locale.
func (l *Localizer) Default() string {
	return l.fallback
}

// Supported returns the supported locale codes, default first.
func (l *Localizer) Supported() []string {
	return append([]string(nil), l.codes...)
}

// Resolve picks the locale for a request. A supported explicit locale wins,
// then Accept-Language negotiation, then the default.
func (l *Localizer) Resolve(explicit, acceptLanguage string) string {
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			if code, ok := l.match(tag); ok {
				return code
			}
		}
	}

	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			if code, ok := l.match(tags...); ok {
				return code
			}
		}
	}

	return l.fallback
}

func (l *Localizer) match(tags ...language.Tag) (string, bool) {
	_, idx, confidence := l.matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return l.codes[idx], true
}

// T translates key into locale, falling back to the default locale and
// finally to the key itself.
func (l *Localizer) T(locale, key string, params ...string) string {
	if trans, found := l.uni.GetTranslator(locale); found {
		if s, err := trans.T(key, params...); err == nil {
			return s
		}
	}
	if trans, found := l.uni.GetTranslator(l.fallback); found {
		if s, err := trans.T(key, params...); err == nil {
			return s
		}
	}
	return key
}
