package similarity

import (
	"context"
	"strconv"

	"github.com/dredninja/Subtitle-Translator/internal/models"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
	"github.com/dredninja/Subtitle-Translator/internal/modules/storage/upload"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Runner launches one external worker process per call.
type Runner interface {
	Run(ctx context.Context, name string, args []string, workDir string) (worker.Result, error)
}

// Recorder persists completed similarity jobs.
type Recorder interface {
	InsertSimilarity(ctx context.Context, job *models.SimilarityJob) error
}

// Service drives the similarity pipeline: invoke worker with an explicit
// output-file path, load the report it wrote, persist one job record.
type Service struct {
	runner      Runner
	rec         Recorder
	interpreter string
	script      string
	downloadDir string
}

func NewService(runner Runner, rec Recorder, interpreter, script, downloadDir string) *Service {
	return &Service{
		runner:      runner,
		rec:         rec,
		interpreter: interpreter,
		script:      script,
		downloadDir: downloadDir,
	}
}

// Outcome describes one finished similarity run.
type Outcome struct {
	Job        *models.SimilarityJob
	Report     *Report
	ReportPath string
}

// Compare runs the worker over two already-stored uploads and persists the
// job record on success.
func (s *Service) Compare(ctx context.Context, userID primitive.ObjectID, originalPath, translatedPath string, threshold float64) (*Outcome, error) {
	// A client disconnect cancels the request context. An already-spawned
	// worker still runs to completion and its result is recorded; only the
	// Invoker's own timeout bounds the run.
	ctx = context.WithoutCancel(ctx)

	outJSON := upload.ReportPath(s.downloadDir)

	args := []string{
		s.script,
		originalPath,
		translatedPath,
		"--threshold", strconv.FormatFloat(threshold, 'f', -1, 64),
		"--out_json", outJSON,
	}
	if _, err := s.runner.Run(ctx, s.interpreter, args, ""); err != nil {
		return nil, err
	}

	rep, err := LoadReport(outJSON)
	if err != nil {
		return nil, err
	}

	job := &models.SimilarityJob{
		UserID:         userID,
		OriginalFile:   originalPath,
		TranslatedFile: translatedPath,
		BackTranslated: rep.BackTranslatedFile,
		JSONReport:     outJSON,
		Threshold:      threshold,
	}
	if err := s.rec.InsertSimilarity(ctx, job); err != nil {
		return nil, err
	}
	return &Outcome{Job: job, Report: rep, ReportPath: outJSON}, nil
}
