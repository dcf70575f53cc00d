package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// SupportedLocales lists the locales the server has catalogs for. The first
// entry is the fallback when nothing else matches.
var SupportedLocales = []string{"fa", "en"}

// DetermineLocale resolves a locale to use based on explicit query param, Accept-Language header,
// supported locales, and a default fallback. Supported values should be base tags like "fa", "en".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	if len(supported) == 0 {
		supported = SupportedLocales
	}
	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, strings.ToLower(s))
	}
	if len(tags) == 0 {
		return "en"
	}
	matcher := language.NewMatcher(tags)

	pick := func(desired ...language.Tag) (string, bool) {
		if len(desired) == 0 {
			return "", false
		}
		_, idx, conf := matcher.Match(desired...)
		if conf == language.No {
			return "", false
		}
		return names[idx], true
	}

	if q := strings.TrimSpace(queryLang); q != "" {
		if tag, err := language.Parse(q); err == nil {
			if v, ok := pick(tag); ok {
				return v
			}
		}
	}
	if a := strings.TrimSpace(acceptLang); a != "" {
		if desired, _, err := language.ParseAcceptLanguage(a); err == nil {
			if v, ok := pick(desired...); ok {
				return v
			}
		}
	}
	if tag, err := language.Parse(def); err == nil {
		if v, ok := pick(tag); ok {
			return v
		}
	}
	return names[0]
}
