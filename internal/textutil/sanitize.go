package textutil

import (
	"regexp"
	"strings"
)

var unsafeRuns = regexp.MustCompile(`[^\w.\-]+`)

// SafeLabel converts a clip label into a filesystem-safe name. Runs of
// characters outside [A-Za-z0-9_.-] collapse to a single underscore and
// leading/trailing underscores are trimmed. Empty results fall back to the
// provided fallback.
func SafeLabel(label, fallback string) string {
	candidate := strings.TrimSpace(label)
	if candidate == "" {
		candidate = fallback
	}
	candidate = unsafeRuns.ReplaceAllString(candidate, "_")
	candidate = strings.Trim(candidate, "_")
	if candidate == "" {
		return fallback
	}
	return candidate
}
