package similarity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/dredninja/Subtitle-Translator/internal/models"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRunner optionally writes a report file to the --out_json path, the way
// the real worker does.
type fakeRunner struct {
	report string
	err    error
	args   []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args []string, _ string) (worker.Result, error) {
	f.args = append([]string(nil), args...)
	if f.err != nil {
		return worker.Result{}, f.err
	}
	if f.report != "" {
		if err := os.WriteFile(outJSONArg(args), []byte(f.report), 0o644); err != nil {
			return worker.Result{}, err
		}
	}
	return worker.Result{}, nil
}

func outJSONArg(args []string) string {
	for i, arg := range args {
		if arg == "--out_json" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

type fakeRecorder struct {
	jobs []*models.SimilarityJob
	err  error
}

func (f *fakeRecorder) InsertSimilarity(_ context.Context, job *models.SimilarityJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

const sampleReport = `{
	"summary": {"threshold": 0.8},
	"report": [
		{"index": 1, "similarity": 0.6},
		{"index": 2, "similarity": 0.9}
	],
	"back_translated_file": "/dl/back.srt"
}`

func TestComparePersistsJobOnSuccess(t *testing.T) {
	runner := &fakeRunner{report: sampleReport}
	rec := &fakeRecorder{}
	svc := NewService(runner, rec, "python", "/app/similarity.py", t.TempDir())
	userID := primitive.NewObjectID()

	outcome, err := svc.Compare(context.Background(), userID, "/up/orig.srt", "/up/trans.srt", 0.7)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if len(rec.jobs) != 1 {
		t.Fatalf("expected one persisted job, got %d", len(rec.jobs))
	}
	job := rec.jobs[0]
	if job.UserID != userID || job.Threshold != 0.7 || job.BackTranslated != "/dl/back.srt" {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.JSONReport != outcome.ReportPath {
		t.Fatalf("job report path %q does not match outcome %q", job.JSONReport, outcome.ReportPath)
	}
	low := outcome.Report.LowSimilarity(0.7)
	if len(low) != 1 || low[0].Index != 1 {
		t.Fatalf("expected report threshold to drive filtering, got %+v", low)
	}
}

func TestCompareWorkerArguments(t *testing.T) {
	runner := &fakeRunner{report: sampleReport}
	svc := NewService(runner, &fakeRecorder{}, "python", "/app/similarity.py", t.TempDir())

	if _, err := svc.Compare(context.Background(), primitive.NewObjectID(), "/up/a.srt", "/up/b.srt", 0.85); err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	args := runner.args
	if len(args) != 7 {
		t.Fatalf("expected 7 worker args, got %v", args)
	}
	if args[0] != "/app/similarity.py" || args[1] != "/up/a.srt" || args[2] != "/up/b.srt" {
		t.Fatalf("unexpected positional args %v", args)
	}
	if args[3] != "--threshold" || args[4] != "0.85" {
		t.Fatalf("unexpected threshold flag %v", args[3:5])
	}
	if args[5] != "--out_json" || args[6] == "" {
		t.Fatalf("unexpected out_json flag %v", args[5:])
	}
}

func TestCompareMissingReportFilePersistsNothing(t *testing.T) {
	// Worker exits 0 but never writes the report file.
	runner := &fakeRunner{}
	rec := &fakeRecorder{}
	svc := NewService(runner, rec, "python", "/app/similarity.py", t.TempDir())

	_, err := svc.Compare(context.Background(), primitive.NewObjectID(), "/up/a.srt", "/up/b.srt", 0.7)
	var parseErr *worker.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if len(rec.jobs) != 0 {
		t.Fatalf("expected no persisted job, got %d", len(rec.jobs))
	}
}

func TestCompareWorkerFailurePersistsNothing(t *testing.T) {
	runner := &fakeRunner{err: &worker.ExecutionError{Name: "similarity", ExitCode: 2, Stderr: "model load failed"}}
	rec := &fakeRecorder{}
	svc := NewService(runner, rec, "python", "/app/similarity.py", t.TempDir())

	_, err := svc.Compare(context.Background(), primitive.NewObjectID(), "/up/a.srt", "/up/b.srt", 0.7)
	var execErr *worker.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if len(rec.jobs) != 0 {
		t.Fatalf("expected no persisted job, got %d", len(rec.jobs))
	}
}

func TestCompareGeneratesDistinctReportPaths(t *testing.T) {
	runner := &fakeRunner{report: sampleReport}
	svc := NewService(runner, &fakeRecorder{}, "python", "/app/similarity.py", t.TempDir())

	first, err := svc.Compare(context.Background(), primitive.NewObjectID(), "/up/a.srt", "/up/b.srt", 0.7)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	second, err := svc.Compare(context.Background(), primitive.NewObjectID(), "/up/a.srt", "/up/b.srt", 0.7)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if first.ReportPath == second.ReportPath {
		t.Fatalf("expected distinct report paths, got %q twice", first.ReportPath)
	}
}

func writeWorkerScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("worker scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "similarity.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCompareSurvivesClientDisconnect(t *testing.T) {
	// $6 is the --out_json value in the worker argument list.
	script := writeWorkerScript(t, "sleep 1\necho '{\"report\":[{\"index\":0,\"similarity\":0.9}]}' > \"$6\"")
	rec := &fakeRecorder{}
	svc := NewService(worker.NewInvoker(0), rec, "/bin/sh", script, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	defer cancel()

	outcome, err := svc.Compare(ctx, primitive.NewObjectID(), "/uploads/orig.srt", "/uploads/trans.srt", 0.7)
	if err != nil {
		t.Fatalf("worker must outlive a disconnected caller, got %v", err)
	}
	if len(rec.jobs) != 1 {
		t.Fatalf("expected the job to be persisted after disconnect, got %d records", len(rec.jobs))
	}
	if len(outcome.Report.Lines) != 1 {
		t.Fatalf("expected the report written after disconnect to be loaded, got %+v", outcome.Report)
	}
}
