package provider

import "testing"

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean", input: "Breaking Bad", want: "Breaking Bad"},
		{name: "colon", input: "Star Wars: Andor", want: "Star Wars Andor"},
		{name: "all_invalid", input: `a<b>c"d/e|f?g*h:i`, want: "abcdefghi"},
		{name: "trims", input: "  Coco ?", want: "Coco"},
		{name: "drive_prefix", input: `C:\Movies`, want: `C:\Movies`},
		{name: "drive_prefix_strips_rest", input: "D:Title: Two", want: "D:Title Two"},
		{name: "reserved", input: "CON", want: "CON_"},
		{name: "reserved_case_insensitive", input: "lpt3", want: "lpt3_"},
		{name: "reserved_after_strip", input: "NUL?", want: "NUL_"},
		{name: "not_reserved", input: "CONSOLE", want: "CONSOLE"},
		{name: "empty", input: "???", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeTitle(tc.input); got != tc.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
