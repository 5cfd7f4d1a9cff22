package lexicon

import (
	"strings"
	"unicode"
)

var numberWordsByCode = map[string]map[string]struct{}{
	"en": wordSet(
		"one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen", "twenty", "thirty", "forty",
		"fifty", "sixty", "seventy", "eighty", "ninety", "hundred",
	),
	"es": wordSet(
		"uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho",
		"nueve", "diez", "once", "doce", "trece", "catorce", "quince",
		"dieciséis", "diecisiete", "dieciocho", "diecinueve", "veinte",
		"treinta", "cuarenta", "cincuenta", "cien",
	),
	"fr": wordSet(
		"un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf",
		"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
		"vingt", "trente", "quarante", "cinquante", "soixante", "cent",
	),
	"de": wordSet(
		"eins", "zwei", "drei", "vier", "fünf", "sechs", "sieben", "acht",
		"neun", "zehn", "elf", "zwölf", "dreizehn", "vierzehn", "fünfzehn",
		"sechzehn", "siebzehn", "achtzehn", "neunzehn", "zwanzig", "dreißig",
		"vierzig", "fünfzig", "hundert",
	),
}

var ordinalWordsByCode = map[string]map[string]struct{}{
	"en": wordSet(
		"first", "second", "third", "fourth", "fifth", "sixth", "seventh",
		"eighth", "ninth", "tenth", "eleventh", "twelfth", "thirteenth",
		"twentieth", "thirtieth", "fortieth", "fiftieth",
	),
	"es": wordSet("primero", "segundo", "tercero", "cuarto", "quinto", "sexto",
		"séptimo", "octavo", "noveno", "décimo"),
	"fr": wordSet("premier", "première", "deuxième", "troisième", "quatrième",
		"cinquième", "sixième", "septième", "huitième", "neuvième", "dixième"),
	"de": wordSet("erstes", "zweites", "drittes", "viertes", "fünftes",
		"sechstes", "siebtes", "achtes", "neuntes", "zehntes"),
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsNumeralToken reports whether a transcript token can serve as the numeric
// part of a chapter announcement: a digit sequence, a spelled-out number or
// ordinal in the given language, or a roman numeral.
func IsNumeralToken(code, token string) bool {
	cleaned := cleanToken(token)
	if cleaned == "" {
		return false
	}
	if isDigits(cleaned) {
		return true
	}
	if set, ok := numberWordsByCode[code]; ok {
		if _, found := set[cleaned]; found {
			return true
		}
	}
	if set, ok := ordinalWordsByCode[code]; ok {
		if _, found := set[cleaned]; found {
			return true
		}
	}
	return isRomanNumeral(cleaned)
}

// CleanToken lowercases a transcript token and strips leading and trailing
// punctuation, yielding the comparable word form.
func CleanToken(token string) string {
	return cleanToken(token)
}

func cleanToken(token string) string {
	return strings.TrimFunc(strings.ToLower(strings.TrimSpace(token)), func(r rune) bool {
		return unicode.IsPunct(r)
	})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// isRomanNumeral accepts well-formed roman numerals up to 3999. Single "i" is
// rejected: as a bare transcript token it is almost always the English pronoun.
func isRomanNumeral(s string) bool {
	if s == "" || s == "i" {
		return false
	}
	valid := "ivxlcdm"
	for _, r := range s {
		if !strings.ContainsRune(valid, r) {
			return false
		}
	}
	// Reject degenerate repetition such as "iiii" or "vv".
	if strings.Contains(s, "iiii") || strings.Contains(s, "xxxx") ||
		strings.Contains(s, "cccc") || strings.Contains(s, "mmmm") ||
		strings.Contains(s, "vv") || strings.Contains(s, "ll") ||
		strings.Contains(s, "dd") {
		return false
	}
	return true
}
