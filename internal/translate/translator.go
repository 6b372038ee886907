package translate

import (
	"context"
	"strings"
)

// Translator translates text between two languages given as ISO 639-1 codes
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

var languageNames = map[string]string{
	"ru": "Russian",
	"en": "English",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"it": "Italian",
	"uk": "Ukrainian",
	"pl": "Polish",
	"zh": "Chinese",
	"ja": "Japanese",
}

// LanguageName returns the English name of a language code, or the code itself
func LanguageName(code string) string {
	base, _, _ := strings.Cut(strings.ToLower(code), "-")
	if name, ok := languageNames[base]; ok {
		return name
	}
	return code
}
