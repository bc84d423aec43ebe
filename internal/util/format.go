package util

import "strings"

// FormatYearMonth normalizes upstream construction dates to YYYY-MM.
// Bare YYYYMM gets a separator after the 4th digit, bare YYYY becomes
// YYYY-01, an already formatted value passes through unchanged.
func FormatYearMonth(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if len(s) == 7 && s[4] == '-' {
		return s
	}
	if len(s) == 6 && isDigits(s) {
		return s[:4] + "-" + s[4:]
	}
	if len(s) == 4 && isDigits(s) {
		return s + "-01"
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// JoinPipe joins non-empty parts with "|", the list separator used inside
// single export cells (image URLs, KBA numbers, engine codes).
func JoinPipe(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "|")
}
