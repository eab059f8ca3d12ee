package encoder

import "context"

// Job describes one extraction: a trimmed, speed-adjusted clip covering a
// single plan unit.
type Job struct {
	Source   string
	Start    float64
	End      float64
	Speed    float64
	Rotation int
	Output   string
}

// Client abstracts the external encoder binary. Both calls return the
// encoder's captured diagnostic output for the job log, alongside the error.
type Client interface {
	Extract(ctx context.Context, job Job) (string, error)
	Concat(ctx context.Context, inputs []string, output string) (string, error)
}
