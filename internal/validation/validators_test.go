package validation

import (
	"math"
	"testing"

	"roadmapcore/pkg/domain"
)

func TestClampAllocation(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"above max", 120, 100},
		{"below min", -5, 0},
		{"nan", math.NaN(), 0},
		{"in range", 57, 57},
		{"fraction", 12.5, 12.5},
		{"upper bound", 100, 100},
		{"lower bound", 0, 0},
		{"positive infinity", math.Inf(1), 100},
		{"negative infinity", math.Inf(-1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampAllocation(tc.in); got != tc.want {
				t.Fatalf("ClampAllocation(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	cases := map[string]bool{
		"https://x.com":              true,
		"http://example.org/a?b=c":   true,
		"HTTPS://EXAMPLE.COM":        true,
		"  https://padded.example  ": true,
		"ftp://x.com":                false,
		"not a url":                  false,
		"":                           false,
		"http://":                    false,
		"mailto:someone@example.com": false,
		"/relative/path":             false,
		"javascript:alert(1)":        false,
	}
	for in, want := range cases {
		if got := IsValidURL(in); got != want {
			t.Errorf("IsValidURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInvalidLinks(t *testing.T) {
	links := []domain.Link{
		{Label: "design doc", URL: "https://docs.example.com"},
		{Label: "bad", URL: "ftp://files.example.com"},
		{Label: "empty", URL: ""},
	}
	got := InvalidLinks(links)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected indexes [1 2], got %v", got)
	}
	if InvalidLinks(nil) != nil {
		t.Fatalf("expected nil for no links")
	}
}
