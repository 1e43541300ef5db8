package headlessterm

import "github.com/unilibs/uniwidth"

// isWideRune reports whether r renders across two terminal columns: CJK
// ideographs, fullwidth forms, and most emoji.
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// runeWidth reports how many columns r occupies: 0 for combining marks and
// control characters, 1 for ordinary runes, 2 for wide ones.
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// StringWidth sums the column width of every rune in s.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
