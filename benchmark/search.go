package benchmark

import (
	"context"
	"fmt"

	"artifactbench/progress"
	"artifactbench/query"
	"artifactbench/repository"
)

// SearchLabel labels the full-text search measurement.
const SearchLabel = "Full text search"

// SearchRunner times one full-text search for a fixed phrase.
type SearchRunner struct {
	svc      repository.Service
	timer    *Timer
	params   BenchmarkParams
	progress progress.Factory
}

// NewSearchRunner returns a search runner using the given session.
func NewSearchRunner(svc repository.Service, timer *Timer, params BenchmarkParams, pf progress.Factory) *SearchRunner {
	return &SearchRunner{svc: svc, timer: timer, params: params, progress: pf}
}

// SearchQuery renders the full-text query for phrase.
func SearchQuery(phrase string) string {
	return query.Path("s-ramp").Where(query.Matches(phrase)).String()
}

// Run issues the search; results are discarded.
func (s *SearchRunner) Run(ctx context.Context) error {
	q := SearchQuery(s.params.SearchPhrase)

	return s.timer.MeasureItems(SearchLabel, s.params.Repeat, func() error {
		var pb progress.Notifier
		if s.params.Repeat > 1 {
			pb = s.progress(int64(s.params.Repeat), "Searching")
			defer pb.Finish()
		}
		return repeat(s.params.Repeat, pb, func() error {
			if _, err := s.svc.Query(ctx, q); err != nil {
				return fmt.Errorf("full text search: %w", err)
			}
			return nil
		})
	})
}
