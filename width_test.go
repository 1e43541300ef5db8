package headlessterm

import "testing"

func TestIsWideRune(t *testing.T) {
	cases := map[rune]bool{
		'A':  false,
		'a':  false,
		' ':  false,
		'0':  false,
		'中': true,
		'日': true,
		'한': true,
		'가': true,
		'Ａ':  true, // fullwidth A
	}

	for r, want := range cases {
		if got := isWideRune(r); got != want {
			t.Errorf("isWideRune(%q) = %v, want %v", r, got, want)
		}
	}
}

func TestRuneWidth(t *testing.T) {
	cases := []struct {
		r    rune
		want int
	}{
		{'A', 1},
		{'a', 1},
		{'1', 1},
		{' ', 1},
		{'中', 2},
		{'日', 2},
		{'本', 2},
		{'한', 2},
		{'글', 2},
		{'가', 2},
		{'Ａ', 2}, // fullwidth A
		{0, 0},
	}

	for _, tc := range cases {
		if got := runeWidth(tc.r); got != tc.want {
			t.Errorf("runeWidth(%q) = %d, want %d", tc.r, got, tc.want)
		}
	}
}

func TestStringWidth(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"Hello", 5},
		{"中文", 4},
		{"Hello中文", 9},
		{"한글", 4},
	}

	for _, tc := range cases {
		if got := StringWidth(tc.s); got != tc.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tc.s, got, tc.want)
		}
	}
}
