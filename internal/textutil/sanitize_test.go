package textutil

import "testing"

func TestSafeLabel(t *testing.T) {
	cases := []struct {
		label    string
		fallback string
		want     string
	}{
		{"Round 1: takedown!", "E1", "Round_1_takedown"},
		{"  ", "E2", "E2"},
		{"???", "E3", "E3"},
		{"ko.finish-v2", "E4", "ko.finish-v2"},
		{"__trimmed__", "E5", "trimmed"},
	}
	for _, tc := range cases {
		if got := SafeLabel(tc.label, tc.fallback); got != tc.want {
			t.Fatalf("SafeLabel(%q, %q) = %q, want %q", tc.label, tc.fallback, got, tc.want)
		}
	}
}
