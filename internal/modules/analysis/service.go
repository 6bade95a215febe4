package analysis

import (
	"context"
	"errors"

	"github.com/dredninja/Subtitle-Translator/internal/models"
	"github.com/dredninja/Subtitle-Translator/internal/modules/pipeline/similarity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errNoReport means the caller has no similarity job to analyze yet.
var errNoReport = errors.New("no similarity report found for analysis")

// Store lists a user's similarity jobs, most recent first.
type Store interface {
	ListSimilarities(ctx context.Context, userID primitive.ObjectID) ([]models.SimilarityJob, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

// Stats summarizes the per-line scores of one similarity report.
type Stats struct {
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Avg          float64   `json:"avg"`
	Similarities []float64 `json:"similarities"`
}

// Latest computes statistics over the caller's most recent similarity report.
func (s *Service) Latest(ctx context.Context, userID primitive.ObjectID) (*Stats, error) {
	jobs, err := s.store.ListSimilarities(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, errNoReport
	}

	rep, err := similarity.LoadReport(jobs[0].JSONReport)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(rep.Lines))
	for _, line := range rep.Lines {
		scores = append(scores, line.Similarity)
	}
	return summarize(scores), nil
}

func summarize(scores []float64) *Stats {
	stats := &Stats{Count: len(scores), Similarities: scores}
	if len(scores) == 0 {
		return stats
	}
	stats.Min = scores[0]
	stats.Max = scores[0]
	sum := 0.0
	for _, v := range scores {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sum += v
	}
	stats.Avg = sum / float64(len(scores))
	return stats
}
