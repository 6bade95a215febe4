package translate

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
)

// WorkerResult is the authoritative final payload of the translation worker.
type WorkerResult struct {
	SRTFile  string `json:"srt_file"`
	JSONFile string `json:"json_file"`
}

// ParseOutput extracts the worker result from accumulated stdout. The worker
// may emit progress or diagnostic lines first; the last non-empty line is the
// result document.
func ParseOutput(stdout []byte) (*WorkerResult, error) {
	lines := strings.Split(string(stdout), "\n")
	var final string
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			final = line
			break
		}
	}
	if final == "" {
		return nil, &worker.ParseError{Name: "translate", Err: errors.New("empty worker output")}
	}

	var res WorkerResult
	if err := json.Unmarshal([]byte(final), &res); err != nil {
		return nil, &worker.ParseError{Name: "translate", Err: err}
	}
	if strings.TrimSpace(res.SRTFile) == "" {
		return nil, &worker.ParseError{Name: "translate", Err: errors.New("result is missing srt_file")}
	}
	if strings.TrimSpace(res.JSONFile) == "" {
		return nil, &worker.ParseError{Name: "translate", Err: errors.New("result is missing json_file")}
	}
	return &res, nil
}
