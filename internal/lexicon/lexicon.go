package lexicon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type entry struct {
	code    string // ISO 639-1 (2-letter)
	display string
	words   []string // full word forms (e.g. "english")
	tag     language.Tag
}

var languages = []entry{
	{"en", "English", []string{"english"}, language.English},
	{"es", "Spanish", []string{"spanish"}, language.Spanish},
	{"fr", "French", []string{"french"}, language.French},
	{"de", "German", []string{"german"}, language.German},
	{"it", "Italian", []string{"italian"}, language.Italian},
	{"pt", "Portuguese", []string{"portuguese"}, language.Portuguese},
}

var (
	byCode map[string]*entry
	byWord map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code] = e
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

// Normalize maps a language identifier (ISO code, locale code like "en-us",
// or a full word like "english") to its canonical two-letter code. The second
// return value reports whether the language is known.
func Normalize(value string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return "", false
	}
	if base, _, found := strings.Cut(cleaned, "-"); found {
		cleaned = base
	}
	if e, ok := byCode[cleaned]; ok {
		return e.code, true
	}
	if e, ok := byWord[cleaned]; ok {
		return e.code, true
	}
	return "", false
}

// Display returns the human-readable name for a normalized code.
func Display(code string) string {
	if e, ok := byCode[code]; ok {
		return e.display
	}
	return code
}

// Supported lists the normalized codes of all known languages, in declaration
// order.
func Supported() []string {
	codes := make([]string, 0, len(languages))
	for _, e := range languages {
		codes = append(codes, e.code)
	}
	return codes
}

// TitleLabel renders a chapter label in title case using the locale's casing
// rules.
func TitleLabel(code, text string) string {
	tag := language.English
	if e, ok := byCode[code]; ok {
		tag = e.tag
	}
	return cases.Title(tag).String(strings.TrimSpace(text))
}

// Features holds the detection vocabulary for one language.
type Features struct {
	// ChapterMarker is the word announcing a numbered chapter ("chapter").
	ChapterMarker string
	// StandaloneMarkers announce unnumbered structural sections
	// ("prologue", "epilogue").
	StandaloneMarkers []string
	// Exclusions are phrases containing the marker word in non-structural
	// contexts; a window matching any of them is suppressed.
	Exclusions []string
}

var featuresByCode = map[string]Features{
	"en": {
		ChapterMarker:     "chapter",
		StandaloneMarkers: []string{"prologue", "epilogue"},
		Exclusions: []string{
			"chapter and verse",
			"chapter of my life",
			"chapter of",
			"this chapter",
			"that chapter",
			"in chapter",
			"and chapter",
			"next chapter",
			"last chapter",
			"previous chapter",
		},
	},
	"es": {
		ChapterMarker:     "capítulo",
		StandaloneMarkers: []string{"prólogo", "epílogo"},
		Exclusions: []string{
			"este capítulo",
			"ese capítulo",
			"en el capítulo",
			"el capítulo anterior",
			"el próximo capítulo",
		},
	},
	"fr": {
		ChapterMarker:     "chapitre",
		StandaloneMarkers: []string{"prologue", "épilogue"},
		Exclusions: []string{
			"ce chapitre",
			"dans le chapitre",
			"au chapitre",
			"le chapitre précédent",
			"le prochain chapitre",
		},
	},
	"de": {
		ChapterMarker:     "kapitel",
		StandaloneMarkers: []string{"prolog", "epilog"},
		Exclusions: []string{
			"dieses kapitel",
			"in kapitel",
			"im kapitel",
			"das letzte kapitel",
			"das nächste kapitel",
		},
	},
}

// FeaturesFor returns the detection vocabulary for a normalized language code.
// Languages without configured features are valid for transcription but cannot
// drive keyword spotting.
func FeaturesFor(code string) (Features, bool) {
	f, ok := featuresByCode[code]
	return f, ok
}
