package journal

import (
	"context"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, "bout", 3)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	jobs := []Job{
		{RunID: runID, UnitIndex: 0, Kind: "keep", Label: "opening", VideoID: "v1", SourceStart: 10, SourceEnd: 20, Speed: 1, Status: "completed", ElapsedMS: 1200},
		{RunID: runID, UnitIndex: 1, Kind: "gap", Label: "gap_1", VideoID: "v1", SourceStart: 20, SourceEnd: 40, Speed: 4, Status: "completed", ElapsedMS: 800},
		{RunID: runID, UnitIndex: 2, Kind: "keep", Label: "finish", VideoID: "v1", SourceStart: 40, SourceEnd: 50, Speed: 1, Status: "failed", Detail: "exit status 1"},
	}
	for _, job := range jobs {
		if err := store.RecordJob(ctx, job); err != nil {
			t.Fatalf("RecordJob: %v", err)
		}
	}
	if err := store.FinishRun(ctx, runID, StatusFailed, 17.5, 1); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.Status != StatusFailed || run.FailedCount != 1 || run.UnitCount != 3 {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected finished timestamp")
	}

	stored, err := store.RunJobs(ctx, runID)
	if err != nil {
		t.Fatalf("RunJobs: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(stored))
	}
	if stored[2].Status != "failed" || stored[2].Detail != "exit status 1" {
		t.Fatalf("unexpected failed job %+v", stored[2])
	}
}

func TestRecentRunsOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.BeginRun(ctx, "a", 1)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	second, err := store.BeginRun(ctx, "b", 1)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second || runs[1].ID != first {
		t.Fatalf("expected newest first, got %+v", runs)
	}
}
