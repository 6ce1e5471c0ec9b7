// Package statement parses uploaded bank statements and derives stable
// identities for their lines.
package statement

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes the text and drops everything outside ASCII, so
// accented characters collapse to their base letter ("ço" -> "co").
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

func foldASCII(s string) string {
	out, _, err := transform.String(asciiFold, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey turns a raw statement description into its matching key:
// diacritics stripped, lower-cased, whitespace collapsed to single spaces.
func NormalizeKey(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(foldASCII(text))), " ")
}

// Fingerprint derives the identity hash for one statement line. The same
// logical line always hashes to the same value regardless of which upload it
// arrived in; any change in date or amount produces a different hash.
func Fingerprint(date time.Time, description string, amount decimal.Decimal) string {
	normalized := strings.ToLower(strings.TrimSpace(foldASCII(description)))
	base := fmt.Sprintf("%s|%s|%s", date.Format("2006-01-02"), normalized, amount.Round(2).StringFixed(2))
	sum := sha1.Sum([]byte(base))
	return hex.EncodeToString(sum[:])
}
