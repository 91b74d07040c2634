// SPDX-License-Identifier: MPL-2.0

// Package slug turns human-readable lesson names into filesystem-safe tokens.
//
// A slug is lower case, contains only ASCII letters, digits and underscores,
// and never starts or ends with an underscore. Accented letters are folded to
// their base letter ("Café" becomes "cafe") before anything else is dropped.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the words of a slug.
const Separator = '_'

var lower = cases.Lower(language.Und)

// Slugify returns the slug for name. Runs of characters that are not letters or
// digits collapse into a single Separator.
func Slugify(name string) string {
	folded, _, err := transform.String(foldChain(), name)
	if err != nil {
		// The chain only drops or rewrites runes; fall back to the raw input.
		folded = name
	}
	folded = lower.String(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteRune(Separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// foldChain decomposes runes and strips combining marks. A new chain is built
// per call because transformers carry state.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
