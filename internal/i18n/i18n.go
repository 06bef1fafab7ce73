package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const defaultLocale = "en"

// Catalog resolves message keys to localized text. Locales are negotiated
// from the Accept-Language header and fall back to English.
type Catalog struct {
	matcher  language.Matcher
	locales  []string
	messages map[string]map[string]string
}

func New() (*Catalog, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale catalogs: %w", err)
	}

	c := &Catalog{messages: make(map[string]map[string]string)}

	var tags []language.Tag
	for _, entry := range entries {
		locale := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		raw, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", locale, err)
		}
		msgs := make(map[string]string)
		if err := yaml.Unmarshal(raw, &msgs); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", locale, err)
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale name %s: %w", locale, err)
		}
		c.messages[locale] = msgs
		// the default locale must be the matcher's first tag
		if locale == defaultLocale {
			tags = append([]language.Tag{tag}, tags...)
			c.locales = append([]string{locale}, c.locales...)
		} else {
			tags = append(tags, tag)
			c.locales = append(c.locales, locale)
		}
	}
	if _, ok := c.messages[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q catalog missing", defaultLocale)
	}

	c.matcher = language.NewMatcher(tags)
	return c, nil
}

// Locale negotiates the best supported locale for an Accept-Language header.
func (c *Catalog) Locale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return defaultLocale
	}
	_, index := language.MatchStrings(c.matcher, acceptLanguage)
	return c.locales[index]
}

// Message resolves a key for the given locale, falling back to the default
// locale and finally to the key itself so missing entries stay visible.
func (c *Catalog) Message(locale, key string) string {
	if msgs, ok := c.messages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := c.messages[defaultLocale][key]; ok {
		return msg
	}
	return key
}
