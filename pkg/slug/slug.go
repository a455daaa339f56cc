// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make returns a lowercase, hyphen-separated URL slug for text.
// Diacritics are stripped, non-alphanumerics collapse into single hyphens.
func Make(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, text)
	if err != nil {
		ascii = text
	}

	var b strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(ascii) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '-' || r == '_' || r == '\t' || r == '\n':
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// WithSuffix appends a random 6-char hex suffix, used to resolve
// unique-constraint collisions on insert.
func WithSuffix(base string) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	if base == "" {
		return hex.EncodeToString(buf)
	}
	return base + "-" + hex.EncodeToString(buf)
}
