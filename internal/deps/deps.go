// Package deps verifies that required external binaries are available before
// an export run starts.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary the exporter relies on.
type Requirement struct {
	Name    string
	Command string
}

// Status reports the availability of a requirement.
type Status struct {
	Name      string
	Command   string
	Available bool
	Detail    string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{Name: req.Name, Command: cmd}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Verify returns an error naming every missing requirement.
func Verify(requirements []Requirement) error {
	missing := make([]string, 0)
	for _, status := range CheckBinaries(requirements) {
		if !status.Available {
			missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required binaries: %s", strings.Join(missing, ", "))
	}
	return nil
}
