package detect

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/lexicon"
	"chapterize/internal/logging"
	"chapterize/internal/services"
	"chapterize/internal/transcribe"
)

// exclusionContext is how many tokens on each side of a marker word are
// joined into the text the exclusion phrases are checked against.
const exclusionContext = 3

// maxNumeralRun bounds the numeral tokens consumed after a marker word
// ("chapter one hundred twenty" is the longest announcement spotted).
const maxNumeralRun = 3

// KeywordSpotter finds chapter announcements in a token stream.
type KeywordSpotter struct {
	language    string
	features    lexicon.Features
	exclusions  []string
	standalone  map[string]bool
	maxTokenGap time.Duration
	logger      *slog.Logger
}

// NewKeywordSpotter builds a spotter for a normalized language code.
// Languages without a detection vocabulary are a configuration error.
func NewKeywordSpotter(language string, extraExclusions []string, maxTokenGap time.Duration, logger *slog.Logger) (*KeywordSpotter, error) {
	features, ok := lexicon.FeaturesFor(language)
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "detect", "keyword",
			fmt.Sprintf("no keyword vocabulary for language %q", language), nil)
	}

	exclusions := make([]string, 0, len(features.Exclusions)+len(extraExclusions))
	for _, phrase := range features.Exclusions {
		exclusions = append(exclusions, strings.ToLower(phrase))
	}
	for _, phrase := range extraExclusions {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" {
			exclusions = append(exclusions, phrase)
		}
	}

	standalone := make(map[string]bool, len(features.StandaloneMarkers))
	for _, marker := range features.StandaloneMarkers {
		standalone[marker] = true
	}

	return &KeywordSpotter{
		language:    language,
		features:    features,
		exclusions:  exclusions,
		standalone:  standalone,
		maxTokenGap: maxTokenGap,
		logger:      logging.NewComponentLogger(logger, "keyword-spotter"),
	}, nil
}

// Language returns the normalized language code the spotter matches in.
func (s *KeywordSpotter) Language() string {
	return s.language
}

// Scan drains the stream and returns a candidate for every chapter
// announcement found. A stream failure aborts the scan.
func (s *KeywordSpotter) Scan(stream *transcribe.TokenStream) ([]Candidate, error) {
	tokens, err := stream.Collect()
	if err != nil {
		return nil, err
	}
	return s.scanTokens(tokens), nil
}

func (s *KeywordSpotter) scanTokens(tokens []transcribe.Token) []Candidate {
	var candidates []Candidate
	for i := 0; i < len(tokens); i++ {
		word := lexicon.CleanToken(tokens[i].Text)
		if word == "" {
			continue
		}

		if s.standalone[word] {
			candidates = append(candidates, Candidate{
				At:         tokens[i].Start,
				Source:     chapters.SourceKeyword,
				Confidence: confidenceStandalone,
				Label:      lexicon.TitleLabel(s.language, word),
			})
			continue
		}

		if word != s.features.ChapterMarker {
			continue
		}
		if s.excluded(tokens, i) {
			s.logger.Debug("marker suppressed by exclusion phrase",
				logging.String("at", tokens[i].Start.Format()))
			continue
		}

		run := s.numeralRun(tokens, i)
		if len(run) == 0 {
			// Bare marker word, no numeral follows. Narrative use.
			continue
		}

		confidence := confidenceShortMatch
		if len(run) > 1 {
			confidence = confidenceLongMatch
		}
		label := lexicon.TitleLabel(s.language, s.features.ChapterMarker+" "+strings.Join(run, " "))
		candidates = append(candidates, Candidate{
			At:         tokens[i].Start,
			Source:     chapters.SourceKeyword,
			Confidence: confidence,
			Label:      label,
		})
		i += len(run)
	}
	return candidates
}

// numeralRun collects the numeral tokens directly after the marker at index
// i, stopping at the first non-numeral or a token gap past maxTokenGap.
func (s *KeywordSpotter) numeralRun(tokens []transcribe.Token, i int) []string {
	var run []string
	prev := tokens[i]
	for j := i + 1; j < len(tokens) && len(run) < maxNumeralRun; j++ {
		gap := tokens[j].Start.Millis() - prev.End.Millis()
		if gap > s.maxTokenGap.Milliseconds() {
			break
		}
		if !lexicon.IsNumeralToken(s.language, tokens[j].Text) {
			break
		}
		run = append(run, lexicon.CleanToken(tokens[j].Text))
		prev = tokens[j]
	}
	return run
}

// excluded reports whether the marker at index i sits inside an exclusion
// phrase. The check joins the surrounding tokens and looks for any phrase as
// a substring, mirroring how the phrases are written (marker included).
func (s *KeywordSpotter) excluded(tokens []transcribe.Token, i int) bool {
	lo := i - exclusionContext
	if lo < 0 {
		lo = 0
	}
	hi := i + exclusionContext + 1
	if hi > len(tokens) {
		hi = len(tokens)
	}
	words := make([]string, 0, hi-lo)
	for _, token := range tokens[lo:hi] {
		if cleaned := lexicon.CleanToken(token.Text); cleaned != "" {
			words = append(words, cleaned)
		}
	}
	context := strings.Join(words, " ")
	for _, phrase := range s.exclusions {
		if strings.Contains(context, phrase) {
			return true
		}
	}
	return false
}
