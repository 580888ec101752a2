package web

import "strconv"

// parseIndex reads a list or todo position from a path segment:
// optional leading whitespace and sign, then the leading run of digits.
// Anything without leading digits is 0 ("abc" -> 0, "3abc" -> 3).
// Values that do not fit an int come back as -1 so they never address anything.
func parseIndex(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return -1
	}
	if neg {
		return -n
	}
	return n
}
