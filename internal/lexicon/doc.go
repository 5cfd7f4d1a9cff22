// Package lexicon consolidates language code normalization and the
// per-language vocabulary used by chapter detection: structural marker words,
// exclusion phrases that suppress false positives, and numeral/ordinal/roman
// token recognition.
package lexicon
