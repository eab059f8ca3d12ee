package timecode

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{5.999, "00:00:05"},
		{61, "00:01:01"},
		{3599, "00:59:59"},
		{3600, "01:00:00"},
		{7325.4, "02:02:05"},
		{-3, "00:00:00"},
	}
	for _, tc := range cases {
		if got := Format(tc.seconds); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
