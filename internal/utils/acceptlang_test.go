package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLocale_QueryParamWins(t *testing.T) {
	got := DetermineLocale("fa-IR", "en-US,en;q=0.9,fa;q=0.8", []string{"en", "fa"}, "en")
	assert.Equal(t, "fa", got)
}

func TestDetermineLocale_AcceptLanguageOrder(t *testing.T) {
	got := DetermineLocale("", "en-US,en;q=0.9,fa;q=0.8", []string{"en", "fa"}, "fa")
	assert.Equal(t, "en", got)
}

func TestDetermineLocale_AcceptLanguagePrefersHigherQ(t *testing.T) {
	got := DetermineLocale("", "fa;q=0.9,en;q=0.8", []string{"en", "fa"}, "en")
	assert.Equal(t, "fa", got)
}

func TestDetermineLocale_DefaultFallback(t *testing.T) {
	assert.Equal(t, "fa", DetermineLocale("", "ja-JP,ko;q=0.9", []string{"en", "fa"}, "fa"))
	assert.Equal(t, "en", DetermineLocale("xx-invalid-!!", "", []string{"en", "fa"}, "en"))
}

func TestDetermineLocale_DefaultSupported(t *testing.T) {
	assert.Equal(t, "fa", DetermineLocale("", "", nil, "de"))
	assert.Equal(t, "en", DetermineLocale("en-GB", "", nil, "fa"))
}
