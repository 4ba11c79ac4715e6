// Package textfilter softens character replies when a chat runs in
// family-friendly mode. The safety-mode prompt instruction does most of
// the work; this is the backstop for models that slip anyway.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words filtered from replies in family-friendly mode, with their
// replacements. Kept deliberately short: template characters swear in
// their identity blocks, and only the output needs softening.
var replacements = map[string]string{
	"fuck":         "fudge",
	"fucking":      "freaking",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"bullshit":     "baloney",
	"goddamn":      "gosh-dang",
	"motherfucker": "mother-trucker",
	"prick":        "jerk",
	"dick":         "jerk",
}

// Filter replaces profanity with family-friendly alternatives,
// preserving the case of each match.
type Filter struct {
	order   []string
	regexes map[string]*regexp.Regexp
}

// New builds a filter with the patterns pre-compiled.
func New() *Filter {
	f := &Filter{
		regexes: make(map[string]*regexp.Regexp, len(replacements)),
	}
	for word := range replacements {
		f.order = append(f.order, word)
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	// Longest first so "motherfucker" is not half-replaced by "fuck".
	for i := 0; i < len(f.order); i++ {
		for j := i + 1; j < len(f.order); j++ {
			if len(f.order[j]) > len(f.order[i]) {
				f.order[i], f.order[j] = f.order[j], f.order[i]
			}
		}
	}
	return f
}

// Clean replaces every filtered word in text with its alternative.
func (f *Filter) Clean(text string) string {
	result := text
	for _, word := range f.order {
		replacement := replacements[word]
		result = f.regexes[word].ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// ContainsProfanity reports whether the text matches any filtered word.
func (f *Filter) ContainsProfanity(text string) bool {
	for _, word := range f.order {
		if f.regexes[word].MatchString(text) {
			return true
		}
	}
	return false
}

func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: mirror the original pattern character by character.
	originalRunes := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
