// Package slug provides URL-friendly slug generation from arbitrary strings,
// including Arabic listing titles which are transliterated to Latin first.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// arabicToLatin maps common Arabic letters and Arabic-Indic digits to Latin
// approximations. The table is intentionally small; anything outside it is
// handled by the generic normalization below.
var arabicToLatin = map[rune]string{
	'ا': "a", 'أ': "a", 'إ': "e", 'آ': "a", 'ء': "a",
	'ب': "b", 'ت': "t", 'ث': "th",
	'ج': "j", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "th",
	'ر': "r", 'ز': "z",
	'س': "s", 'ش': "sh",
	'ص': "s", 'ض': "d",
	'ط': "t", 'ظ': "z",
	'ع': "a", 'غ': "gh",
	'ف': "f", 'ق': "q",
	'ك': "k", 'ل': "l",
	'م': "m", 'ن': "n",
	'ه': "h", 'ة': "a",
	'و': "w", 'ي': "y", 'ى': "a",
	'٠': "0", '١': "1", '٢': "2", '٣': "3", '٤': "4",
	'٥': "5", '٦': "6", '٧': "7", '٨': "8", '٩': "9",
}

// nonAlphanumeric matches every run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string.
// Example: "Toyota Camry 2023!" → "toyota-camry-2023".
//
// Arabic input is transliterated character by character before the generic
// cleanup, so "شقة" becomes "shqa" rather than being stripped entirely.
// Generate never returns an empty string: when nothing survives cleanup
// (symbols-only or empty input) it falls back to a timestamped placeholder,
// which keeps downstream uniqueness probes cheap.
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if latin, ok := arabicToLatin[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteRune(r)
		}
	}

	result := strings.ToLower(b.String())
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if result == "" {
		return "upload-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return result
}
