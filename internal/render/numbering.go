package render

import "strings"

var romanDigits = []struct {
	value int
	sym   string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// Roman returns n as a lower-case roman numeral, or "" for n < 1.
func Roman(n int) string {
	var b strings.Builder
	for _, d := range romanDigits {
		for n >= d.value {
			b.WriteString(d.sym)
			n -= d.value
		}
	}
	return b.String()
}

// Letter returns the 1-based n as a letter label: a..z, then aa, ab, ...
func Letter(n int, upper bool) string {
	base := 'a'
	if upper {
		base = 'A'
	}
	var out []rune
	for n > 0 {
		n--
		out = append([]rune{base + rune(n%26)}, out...)
		n /= 26
	}
	return string(out)
}
