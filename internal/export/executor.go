package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"boutreview/internal/annotate"
	"boutreview/internal/encoder"
	"boutreview/internal/journal"
	"boutreview/internal/logging"
	"boutreview/internal/services"
	"boutreview/internal/textutil"
	"boutreview/internal/timeline"
)

const (
	// HighlightsFilename is the final assembled reel inside the output dir.
	HighlightsFilename = "highlights.mp4"
	// ChaptersFilename lists surviving chapters in output time.
	ChaptersFilename = "youtube_chapters.txt"
	// CommentsFilename lists mapped comments in output time.
	CommentsFilename = "comments_timestamps.txt"

	lockFilename   = ".export.lock"
	jobLogFilename = "export.log"
)

// Duplicate-label policies for clip filenames.
const (
	// DuplicateSuffix appends a numeric suffix to later clips sharing a label.
	DuplicateSuffix = "suffix"
	// DuplicateNewest gives the plain label to the last clip; earlier ones
	// become intermediates.
	DuplicateNewest = "newest"
)

// Status of one extraction job.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusSkipped marks jobs that never started because the run was
	// cancelled first.
	StatusSkipped Status = "skipped"
)

// Options configures a single export run.
type Options struct {
	// OutputDir receives highlights.mp4 and the text artifacts. Clips land
	// in OutputDir/clips, logs in OutputDir/logs.
	OutputDir string
	// SourceDir holds the imported source videos referenced by the plan.
	SourceDir string
	// Workers bounds concurrent extraction jobs. Zero or negative means
	// runtime.NumCPU().
	Workers int
	// JobTimeout limits each extraction job. Zero disables the per-job
	// deadline.
	JobTimeout time.Duration
	// OnDuplicateLabel selects the clip naming policy when keep segments
	// share a sanitized label. Empty means DuplicateSuffix.
	OnDuplicateLabel string
	// Journal, when set, records the run and its jobs.
	Journal *journal.Store
	Logger  *slog.Logger
}

// UnitResult is the outcome of one plan unit.
type UnitResult struct {
	Index   int
	Unit    timeline.Unit
	Output  string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Result summarizes an export run. Clips and text artifacts are reported
// even when the run fails or is cancelled; Highlights is set only on full
// success.
type Result struct {
	Highlights   string
	Clips        []string
	ChaptersFile string
	CommentsFile string
	LogFile      string
	Units        []UnitResult
	Failed       int
	Cancelled    bool
	Duration     float64
}

// Executor extracts every plan unit through the encoder client and, when all
// jobs succeed, assembles them into the final reel.
type Executor struct {
	enc  encoder.Client
	opts Options
}

// New constructs an executor. A nil logger is replaced with a no-op one.
func New(enc encoder.Client, opts Options) *Executor {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.OnDuplicateLabel == "" {
		opts.OnDuplicateLabel = DuplicateSuffix
	}
	return &Executor{enc: enc, opts: opts}
}

// Run executes the plan. Extraction is best-effort: every unit is attempted
// even when siblings fail, and the text artifacts are written regardless of
// job outcomes. Assembly is fail-fast: the concat step runs only when every
// extraction job completed. A second Run against the same output directory
// returns services.ErrConflict while the first is still holding the lock.
func (e *Executor) Run(ctx context.Context, project *timeline.Project, plan *timeline.Plan, notes annotate.Report) (*Result, error) {
	clipsDir := filepath.Join(e.opts.OutputDir, "clips")
	logsDir := filepath.Join(e.opts.OutputDir, "logs")
	workDir := filepath.Join(e.opts.OutputDir, "work")
	for _, dir := range []string{e.opts.OutputDir, clipsDir, logsDir, workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "export", "prepare directories", dir, err)
		}
	}

	lock := flock.New(filepath.Join(e.opts.OutputDir, lockFilename))
	held, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "acquire lock", "", err)
	}
	if !held {
		return nil, services.Wrap(services.ErrConflict, "export", "acquire lock", "another export is already writing to this directory", nil)
	}
	defer lock.Unlock()

	result := &Result{
		ChaptersFile: filepath.Join(e.opts.OutputDir, ChaptersFilename),
		CommentsFile: filepath.Join(e.opts.OutputDir, CommentsFilename),
		LogFile:      filepath.Join(logsDir, jobLogFilename),
		Duration:     plan.Duration,
	}

	// Text artifacts do not depend on any encoder invocation; write them
	// first so they survive a failed or cancelled run.
	if err := WriteChapters(result.ChaptersFile, notes.Chapters); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "write chapters", "", err)
	}
	if err := WriteComments(result.CommentsFile, notes.Comments, notes.Excluded); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "write comments", "", err)
	}

	jlog, err := openJobLog(result.LogFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "open job log", "", err)
	}
	defer jlog.Close()

	runID := e.beginRun(project, plan)

	if len(plan.Units) == 0 {
		e.opts.Logger.Warn("plan contains no units, nothing to export", logging.String("project", project.Name))
		jlog.Line("plan contains no units, nothing to export")
		e.finishRun(runID, journal.StatusCompleted, 0, 0)
		return result, nil
	}

	outputs := e.assignOutputs(plan.Units, clipsDir, workDir)
	result.Units = e.runJobs(ctx, project, plan.Units, outputs, jlog, runID)

	for _, u := range result.Units {
		if u.Status == StatusFailed {
			result.Failed++
		}
		if u.Status == StatusCompleted && u.Unit.Kind == timeline.UnitKeep && filepath.Dir(u.Output) == clipsDir {
			result.Clips = append(result.Clips, u.Output)
		}
	}

	if ctx.Err() != nil {
		result.Cancelled = true
		jlog.Line("run cancelled, skipping assembly")
		e.finishRun(runID, journal.StatusCancelled, 0, result.Failed)
		return result, fmt.Errorf("export cancelled before assembly: %w", ctx.Err())
	}
	if result.Failed > 0 {
		e.finishRun(runID, journal.StatusFailed, 0, result.Failed)
		return result, services.Wrap(services.ErrExternalTool, "export", "extract units",
			fmt.Sprintf("%d of %d extraction jobs failed, highlights not assembled", result.Failed, len(plan.Units)), nil)
	}

	highlights := filepath.Join(e.opts.OutputDir, HighlightsFilename)
	inputs := make([]string, len(result.Units))
	for i, u := range result.Units {
		inputs[i] = u.Output
	}
	started := time.Now()
	diag, err := e.enc.Concat(ctx, inputs, highlights)
	jlog.Job("concat", "highlights", err, time.Since(started), diag)
	if err != nil {
		e.finishRun(runID, journal.StatusFailed, 0, result.Failed)
		return result, services.Wrap(services.ErrExternalTool, "export", "assemble highlights", "", err)
	}
	result.Highlights = highlights

	// Gap and renamed-duplicate intermediates are only needed for assembly.
	if err := os.RemoveAll(workDir); err != nil {
		e.opts.Logger.Warn("failed to clean intermediate directory", logging.Error(err))
	}

	e.finishRun(runID, journal.StatusCompleted, plan.Duration, 0)
	e.opts.Logger.Info("export complete",
		logging.String("output", highlights),
		logging.Int("clips", len(result.Clips)),
		logging.Float64("duration_seconds", plan.Duration))
	return result, nil
}

func (e *Executor) runJobs(ctx context.Context, project *timeline.Project, units []timeline.Unit, outputs []string, jlog *jobLog, runID int64) []UnitResult {
	results := make([]UnitResult, len(units))
	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup
	for i := range units {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = UnitResult{Index: i, Unit: units[i], Status: StatusSkipped, Err: ctx.Err()}
				e.recordJob(runID, results[i])
				return
			}
			results[i] = e.runJob(ctx, project, i, units[i], outputs[i], jlog)
			e.recordJob(runID, results[i])
		}(i)
	}
	wg.Wait()
	return results
}

func (e *Executor) runJob(ctx context.Context, project *timeline.Project, index int, unit timeline.Unit, output string, jlog *jobLog) UnitResult {
	res := UnitResult{Index: index, Unit: unit, Output: output}
	if ctx.Err() != nil {
		res.Status = StatusSkipped
		res.Err = ctx.Err()
		return res
	}

	video, ok := project.VideoByID(unit.VideoID)
	if !ok {
		res.Status = StatusFailed
		res.Err = services.Wrap(services.ErrNotFound, "export", "resolve video", unit.VideoID, nil)
		jlog.Job(string(unit.Kind), unit.Label, res.Err, 0, "")
		return res
	}
	source := filepath.Join(e.opts.SourceDir, video.Filename)
	if _, err := os.Stat(source); err != nil {
		res.Status = StatusFailed
		res.Err = services.Wrap(services.ErrNotFound, "export", "stat source", source, err)
		jlog.Job(string(unit.Kind), unit.Label, res.Err, 0, "")
		return res
	}

	jobCtx := ctx
	cancel := context.CancelFunc(func() {})
	if e.opts.JobTimeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, e.opts.JobTimeout)
	}
	defer cancel()

	started := time.Now()
	diag, err := e.enc.Extract(jobCtx, encoder.Job{
		Source:   source,
		Start:    unit.Start,
		End:      unit.End,
		Speed:    unit.Speed,
		Rotation: video.EffectiveRotation(),
		Output:   output,
	})
	res.Elapsed = time.Since(started)

	switch {
	case err == nil:
		res.Status = StatusCompleted
	case errors.Is(jobCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		res.Status = StatusFailed
		res.Err = services.Wrap(services.ErrTimeout, "export", "extract unit",
			fmt.Sprintf("job exceeded %s", e.opts.JobTimeout), err)
	default:
		res.Status = StatusFailed
		res.Err = services.Wrap(services.ErrExternalTool, "export", "extract unit", unit.Label, err)
	}
	jlog.Job(string(unit.Kind), unit.Label, res.Err, res.Elapsed, diag)
	if res.Err != nil {
		e.opts.Logger.Error("extraction job failed",
			logging.Int("unit", index),
			logging.String("label", unit.Label),
			logging.Error(res.Err))
	}
	return res
}

// assignOutputs maps each unit to its destination file. Keep units go to the
// clips directory under their sanitized label; gaps are intermediates. The
// duplicate-label policy decides who owns a contested filename.
func (e *Executor) assignOutputs(units []timeline.Unit, clipsDir, workDir string) []string {
	outputs := make([]string, len(units))
	labels := make([]string, len(units))
	lastOwner := make(map[string]int)
	gapCount := 0
	for i, unit := range units {
		if unit.Kind == timeline.UnitGap {
			gapCount++
			outputs[i] = filepath.Join(workDir, fmt.Sprintf("gap_%d.mp4", gapCount))
			continue
		}
		labels[i] = clipLabel(unit, i)
		lastOwner[labels[i]] = i
	}

	seen := make(map[string]int)
	for i, unit := range units {
		if unit.Kind != timeline.UnitKeep {
			continue
		}
		label := labels[i]
		n := seen[label]
		seen[label] = n + 1
		switch {
		case n == 0:
			outputs[i] = filepath.Join(clipsDir, label+".mp4")
		case e.opts.OnDuplicateLabel == DuplicateNewest:
			if lastOwner[label] == i {
				// The newest clip claims the plain filename; the first
				// occurrence is demoted to an intermediate below.
				outputs[i] = filepath.Join(clipsDir, label+".mp4")
				first := firstOwner(labels, units, label)
				outputs[first] = filepath.Join(workDir, fmt.Sprintf("dup_%d_%s.mp4", first+1, label))
			} else {
				outputs[i] = filepath.Join(workDir, fmt.Sprintf("dup_%d_%s.mp4", i+1, label))
			}
		default:
			outputs[i] = filepath.Join(clipsDir, fmt.Sprintf("%s_%d.mp4", label, n+1))
		}
	}
	return outputs
}

func clipLabel(unit timeline.Unit, index int) string {
	return textutil.SafeLabel(unit.Label, fmt.Sprintf("clip_%d", index+1))
}

func firstOwner(labels []string, units []timeline.Unit, label string) int {
	for i, unit := range units {
		if unit.Kind == timeline.UnitKeep && labels[i] == label {
			return i
		}
	}
	return 0
}

func (e *Executor) beginRun(project *timeline.Project, plan *timeline.Plan) int64 {
	if e.opts.Journal == nil {
		return 0
	}
	// Journal writes use a fresh context so cancellation of the run itself
	// never loses the record of what happened.
	id, err := e.opts.Journal.BeginRun(context.Background(), project.Name, len(plan.Units))
	if err != nil {
		e.opts.Logger.Warn("journal unavailable for this run", logging.Error(err))
		return 0
	}
	return id
}

func (e *Executor) finishRun(runID int64, status string, outputDuration float64, failed int) {
	if e.opts.Journal == nil || runID == 0 {
		return
	}
	if err := e.opts.Journal.FinishRun(context.Background(), runID, status, outputDuration, failed); err != nil {
		e.opts.Logger.Warn("failed to finalize journal run", logging.Error(err))
	}
}

func (e *Executor) recordJob(runID int64, res UnitResult) {
	if e.opts.Journal == nil || runID == 0 {
		return
	}
	detail := ""
	if res.Err != nil {
		detail = res.Err.Error()
	}
	job := journal.Job{
		RunID:       runID,
		UnitIndex:   res.Index,
		Kind:        string(res.Unit.Kind),
		Label:       res.Unit.Label,
		VideoID:     res.Unit.VideoID,
		SourceStart: res.Unit.Start,
		SourceEnd:   res.Unit.End,
		Speed:       res.Unit.Speed,
		Status:      string(res.Status),
		Detail:      detail,
		ElapsedMS:   res.Elapsed.Milliseconds(),
	}
	if err := e.opts.Journal.RecordJob(context.Background(), job); err != nil {
		e.opts.Logger.Warn("failed to record job in journal", logging.Error(err))
	}
}
