// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that do not decompose into a base letter plus a combining mark.
var replacer = strings.NewReplacer(
	"đ", "d", "Đ", "D",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"&", " and ",
)

// Make lowercases name, strips diacritics and joins the remaining letter and
// digit runs with '-'. It is pure and idempotent: Make(Make(s)) == Make(s).
//
// A name whose letters have no ASCII form ("Обувь", "鞋子") gets a hashed
// slug such as "n-3f2a9c01b7", stable for the same name. A name with no
// letters or digits at all yields "".
func Make(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, replacer.Replace(name))
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return hashed(name)
	}
	return b.String()
}

const hashedLen = 10

func hashed(name string) string {
	key := norm.NFC.String(strings.ToLower(strings.TrimSpace(name)))
	if strings.IndexFunc(key, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return "n-" + hex.EncodeToString(sum[:])[:hashedLen]
}
