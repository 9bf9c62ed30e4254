package util

import (
	"testing"

	"github.com/antzucaro/matchr"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "Breaking Bad", b: "Breaking Bad", want: 0},
		{name: "empty_left", a: "", b: "abc", want: 3},
		{name: "empty_right", a: "abc", b: "", want: 3},
		{name: "both_empty", a: "", b: "", want: 0},
		{name: "kitten", a: "kitten", b: "sitting", want: 3},
		{name: "orientation_independent", a: "sitting", b: "kitten", want: 3},
		{name: "code_points", a: "café", b: "cafe", want: 1},
		{name: "japanese", a: "進撃の巨人", b: "進撃の巨人 2", want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Distance(tc.a, tc.b); got != tc.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDistanceAgreesWithMatchr(t *testing.T) {
	pairs := [][2]string{
		{"Rick and Morty", "Rick & Morty"},
		{"The 100 Girlfriends", "The 100 Girlfriends Who Really Love You"},
		{"Dr Stone", "Dr. STONE"},
		{"Youkoso Jitsuryoku", "Classroom of the Elite"},
		{"Naïve", "Naive"},
	}
	for _, p := range pairs {
		want := matchr.Levenshtein(p[0], p[1])
		if got := Distance(p[0], p[1]); got != want {
			t.Errorf("Distance(%q, %q) = %d, matchr says %d", p[0], p[1], got, want)
		}
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy("Breaking Bad", "Breaking Bad"); got != 100 {
		t.Errorf("Accuracy(identical) = %d, want 100", got)
	}
	long := "a very long title that has nothing in common with the other one at all, really nothing, it keeps going for more than one hundred characters"
	if got := Accuracy("x", long); got >= 0 {
		t.Errorf("Accuracy() = %d, want a negative score for distant strings", got)
	}
}

func TestFindYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Dark Knight 2008", "2008"},
		{"Blade Runner 2049 1982", "2049"},
		{"The 100 Girlfriends", ""},
		{"Resolution 21080", ""},
		{"Space 1999", "1999"},
		{"Year 1899", ""},
	}
	for _, tc := range tests {
		if got := FindYear(tc.in); got != tc.want {
			t.Errorf("FindYear(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMatchesYear(t *testing.T) {
	if !MatchesYear("Dune 1984 remake 2021", "2021") {
		t.Error("MatchesYear() should find the second year")
	}
	if MatchesYear("Dune 20211", "2021") {
		t.Error("MatchesYear() must be word bounded")
	}
	if MatchesYear("Dune", "") {
		t.Error("MatchesYear() with empty year should be false")
	}
}

func TestYearFromDate(t *testing.T) {
	if got := YearFromDate("2008-01-20"); got != "2008" {
		t.Errorf("YearFromDate() = %q, want 2008", got)
	}
	if got := YearFromDate(""); got != "" {
		t.Errorf("YearFromDate(empty) = %q, want empty", got)
	}
}
