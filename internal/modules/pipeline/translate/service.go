package translate

import (
	"context"

	"github.com/dredninja/Subtitle-Translator/internal/models"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
	"github.com/dredninja/Subtitle-Translator/internal/modules/storage/upload"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Runner launches one external worker process per call.
type Runner interface {
	Run(ctx context.Context, name string, args []string, workDir string) (worker.Result, error)
}

// Recorder persists completed translation jobs.
type Recorder interface {
	InsertTranslation(ctx context.Context, job *models.TranslationJob) error
}

// Service drives the translation pipeline: invoke worker, parse the final
// stdout line, persist one job record.
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

// Outcome describes one finished translation run.
type Outcome struct {
	Job    *models.TranslationJob
	Result *WorkerResult
}

// Translate runs the worker for an already-stored upload and persists the job
// record on success. Any failure aborts before persistence; no partial record
// is ever written.
func (s *Service) Translate(ctx context.Context, userID primitive.ObjectID, inputPath, srcLang, tgtLang string) (*Outcome, error) {
	// A client disconnect cancels the request context. An already-spawned
	// worker still runs to completion and its result is recorded; only the
	// Invoker's own timeout bounds the run.
	ctx = context.WithoutCancel(ctx)

	outBase := upload.OutputBase(s.downloadDir)

	res, err := s.runner.Run(ctx, s.interpreter, []string{s.script, inputPath, srcLang, tgtLang, outBase}, "")
	if err != nil {
		return nil, err
	}

	parsed, err := ParseOutput(res.Stdout)
	if err != nil {
		return nil, err
	}

	job := &models.TranslationJob{
		UserID:         userID,
		OriginalFile:   inputPath,
		TranslatedFile: parsed.SRTFile,
		JSONReport:     parsed.JSONFile,
		SrcLang:        srcLang,
		TgtLang:        tgtLang,
		Progress:       1,
	}
	if err := s.rec.InsertTranslation(ctx, job); err != nil {
		return nil, err
	}
	return &Outcome{Job: job, Result: parsed}, nil
}
