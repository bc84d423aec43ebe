package util

import "testing"

func TestFormatYearMonth(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"2003-09", "2003-09"},
		{"200309", "2003-09"},
		{"2012", "2012-01"},
		{"n/a", "n/a"},
	}
	for _, tc := range cases {
		if got := FormatYearMonth(tc.in); got != tc.want {
			t.Errorf("FormatYearMonth(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJoinPipe(t *testing.T) {
	if got := JoinPipe([]string{"a", "", "b"}); got != "a|b" {
		t.Fatalf("got %q", got)
	}
	if got := JoinPipe(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
