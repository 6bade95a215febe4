package similarity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/worker"
)

// Summary is the report header. Threshold is a pointer so a report that omits
// it can be told apart from one that sets 0.
type Summary struct {
	Threshold *float64               `json:"threshold,omitempty"`
	Extra     map[string]interface{} `json:"-"`
}

// Line is one per-subtitle-line similarity record.
type Line struct {
	Index          int     `json:"index"`
	Original       string  `json:"original"`
	Translated     string  `json:"translated"`
	BackTranslated string  `json:"back_translated"`
	Similarity     float64 `json:"similarity"`
}

// Report is the worker's on-disk JSON result.
type Report struct {
	Summary            Summary `json:"summary"`
	Lines              []Line  `json:"report"`
	BackTranslatedFile string  `json:"back_translated_file,omitempty"`
}

// summaryAlias avoids recursing into Summary's own UnmarshalJSON.
type summaryAlias Summary

// UnmarshalJSON keeps unrecognized summary fields so the full summary object
// can be returned to the client unchanged.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var alias summaryAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra := map[string]interface{}{}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	delete(extra, "threshold")
	*s = Summary(alias)
	s.Extra = extra
	return nil
}

// MarshalJSON re-emits the summary with its extra fields.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.Extra)+1)
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.Threshold != nil {
		out["threshold"] = *s.Threshold
	}
	return json.Marshal(out)
}

// LoadReport reads and validates the worker's report file. The worker writes
// the file itself; exit code 0 with a missing or malformed file is a contract
// violation.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &worker.ParseError{Name: "similarity", Err: fmt.Errorf("read report: %w", err)}
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, &worker.ParseError{Name: "similarity", Err: err}
	}
	if rep.Lines == nil {
		return nil, &worker.ParseError{Name: "similarity", Err: errors.New("report array is missing")}
	}
	return &rep, nil
}

// EffectiveThreshold returns the cutoff actually used for low-similarity
// filtering: the report's own threshold when present, else the requested one.
func (r *Report) EffectiveThreshold(requested float64) float64 {
	if r.Summary.Threshold != nil {
		return *r.Summary.Threshold
	}
	return requested
}

// LowSimilarity returns the ordered subset of lines scoring below the
// effective threshold.
func (r *Report) LowSimilarity(requested float64) []Line {
	cutoff := r.EffectiveThreshold(requested)
	low := []Line{}
	for _, line := range r.Lines {
		if line.Similarity < cutoff {
			low = append(low, line)
		}
	}
	return low
}
