package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Server-side strings only; the questionnaire text lives in the survey definition.
var translations = map[string]map[string]string{
	"en": {
		"health.ok":           "ok",
		"consistency.good":    "Judgments are consistent",
		"consistency.warning": "Judgments are inconsistent; please review the comparisons",
		"csv.participant":     "Participant",
		"csv.organization":    "Organization",
		"csv.section":         "Section",
		"csv.cr":              "CR",
		"csv.date":            "Date",
		"csv.weights":         "Weights",
		"error.bad_request":   "invalid request body",
		"error.unauthorized":  "unauthorized",
		"error.not_found":     "not found",
		"error.internal":      "internal error",
	},
	"fa": {
		"health.ok":           "سالم",
		"consistency.good":    "قضاوت‌ها سازگار هستند",
		"consistency.warning": "قضاوت‌ها ناسازگار هستند؛ لطفاً مقایسه‌ها را بازبینی کنید",
		"csv.participant":     "شرکت‌کننده",
		"csv.organization":    "سازمان",
		"csv.section":         "بخش",
		"csv.cr":              "نرخ ناسازگاری",
		"csv.date":            "تاریخ",
		"csv.weights":         "وزن‌ها",
		"error.bad_request":   "درخواست نامعتبر است",
		"error.unauthorized":  "دسترسی غیرمجاز",
		"error.not_found":     "یافت نشد",
		"error.internal":      "خطای داخلی",
	},
}

// catalogLocales lists the catalog languages; the first one is the fallback.
var catalogLocales = []language.Tag{language.English, language.Persian}

var (
	messages       = catalog.NewBuilder(catalog.Fallback(language.English))
	catalogMatcher = language.NewMatcher(catalogLocales)
)

func init() {
	for locale, msgs := range translations {
		tag := language.MustParse(locale)
		for key, text := range msgs {
			if err := messages.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
}

// T returns the catalog string for key in locale; falls back to English,
// then to the key itself.
func T(locale, key string) string {
	_, idx, _ := catalogMatcher.Match(language.Make(locale))
	tag := catalogLocales[idx]
	if s := printer(tag).Sprintf(key); s != key || tag == language.English {
		return s
	}
	return printer(language.English).Sprintf(key)
}

func printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// ConsistencyMessage returns the localized verdict for a consistency ratio check.
func ConsistencyMessage(locale string, consistent bool) string {
	if consistent {
		return T(locale, "consistency.good")
	}
	return T(locale, "consistency.warning")
}
