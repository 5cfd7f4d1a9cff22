package lexicon

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"en", "en", true},
		{"EN", "en", true},
		{"en-us", "en", true},
		{"english", "en", true},
		{"English", "en", true},
		{"es", "es", true},
		{"fr-FR", "fr", true},
		{"german", "de", true},
		{"", "", false},
		{"tlh", "", false},
		{"klingon", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFeaturesFor(t *testing.T) {
	f, ok := FeaturesFor("en")
	if !ok {
		t.Fatal("english features missing")
	}
	if f.ChapterMarker != "chapter" {
		t.Errorf("ChapterMarker = %q", f.ChapterMarker)
	}
	if len(f.Exclusions) == 0 || len(f.StandaloneMarkers) != 2 {
		t.Errorf("unexpected feature shape: %+v", f)
	}

	if _, ok := FeaturesFor("it"); ok {
		t.Error("italian features should not be configured yet")
	}
}

func TestIsNumeralToken(t *testing.T) {
	tests := []struct {
		lang  string
		token string
		want  bool
	}{
		{"en", "two", true},
		{"en", "Twenty", true},
		{"en", "twenty-one", false}, // spotter sees hyphenless tokens; compound handled across window
		{"en", "first", true},
		{"en", "7", true},
		{"en", "42", true},
		{"en", "XIV", true},
		{"en", "ix", true},
		{"en", "i", false},
		{"en", "I", false},
		{"en", "two.", true},
		{"en", "life", false},
		{"en", "", false},
		{"es", "doce", true},
		{"fr", "troisième", true},
		{"de", "zwölf", true},
		{"en", "doce", false},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.token, func(t *testing.T) {
			if got := IsNumeralToken(tt.lang, tt.token); got != tt.want {
				t.Errorf("IsNumeralToken(%q, %q) = %v, want %v", tt.lang, tt.token, got, tt.want)
			}
		})
	}
}

func TestTitleLabel(t *testing.T) {
	if got := TitleLabel("en", "chapter twenty one"); got != "Chapter Twenty One" {
		t.Errorf("TitleLabel = %q", got)
	}
	if got := TitleLabel("en", "  prologue "); got != "Prologue" {
		t.Errorf("TitleLabel trims = %q", got)
	}
}

func TestSupportedIncludesDisplay(t *testing.T) {
	codes := Supported()
	if len(codes) == 0 {
		t.Fatal("no supported languages")
	}
	for _, code := range codes {
		if Display(code) == "" {
			t.Errorf("Display(%q) empty", code)
		}
	}
}
