package export

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// jobLog is the per-run extraction log under exports/logs. It captures the
// encoder's diagnostic output for every job so a failed run can be diagnosed
// without re-running anything. Safe for concurrent use by the worker pool.
type jobLog struct {
	mu sync.Mutex
	f  *os.File
}

func openJobLog(path string) (*jobLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &jobLog{f: f}, nil
}

// Line writes a single timestamped message.
func (l *jobLog) Line(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "[%s] %s\n", time.Now().UTC().Format(time.RFC3339), message)
}

// Job records one encoder invocation: its outcome line followed by the
// captured diagnostic output, indented for readability.
func (l *jobLog) Job(kind, label string, jobErr error, elapsed time.Duration, diagnostics string) {
	status := "ok"
	if jobErr != nil {
		status = "failed: " + jobErr.Error()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "[%s] %s %q elapsed=%s %s\n",
		time.Now().UTC().Format(time.RFC3339), kind, label, elapsed.Round(time.Millisecond), status)
	if diagnostics = strings.TrimSpace(diagnostics); diagnostics != "" {
		for _, line := range strings.Split(diagnostics, "\n") {
			fmt.Fprintf(l.f, "    %s\n", line)
		}
	}
}

func (l *jobLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
