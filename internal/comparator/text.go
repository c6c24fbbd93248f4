package comparator

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/loomhq/loom/internal/schema"
)

// satisfiesText evaluates the text comparator family. Both sides are
// NFC-normalized before comparison so visually identical strings with
// different code point sequences compare equal.
func satisfiesText(value any, cmp schema.Comparator, expected any) bool {
	got, ok := asString(value)
	if !ok {
		return false
	}
	want, ok := asString(expected)
	if !ok {
		return false
	}
	got = norm.NFC.String(got)
	want = norm.NFC.String(want)

	switch cmp {
	case schema.CompIs:
		return got == want
	case schema.CompIsNot:
		return got != want
	case schema.CompContains:
		return strings.Contains(got, want)
	case schema.CompNotContains:
		return !strings.Contains(got, want)
	case schema.CompStartsWith:
		return strings.HasPrefix(got, want)
	case schema.CompEndsWith:
		return strings.HasSuffix(got, want)
	}
	return false
}
