package pipeline

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/helpdex/internal/domain"
	"github.com/kailas-cloud/helpdex/internal/domain/match"
)

// State is the per-request value the stages read and fill in order.
type State struct {
	QueryID   string
	Query     string
	Hits      []domain.Hit
	Match     match.Match
	Procedure []string
	Answer    domain.Answer
}

// Stage is one named step of the pipeline.
type Stage struct {
	Name string
	Run  func(ctx context.Context, s *State) error
}

// Stage names, also used as metric labels.
const (
	StageMatch    = "match"
	StageExpand   = "expand"
	StageAssemble = "assemble"
)

// MatchStage searches the index and keeps the nearest document of each type.
func MatchStage(searcher Searcher, topK int) Stage {
	return Stage{Name: StageMatch, Run: func(ctx context.Context, s *State) error {
		hits, err := searcher.Search(ctx, s.Query, topK)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		s.Hits = hits
		s.Match = match.Select(hits)
		return nil
	}}
}

// ExpandStage fetches the step path of the matched procedure. Without a procedure
// the graph is not queried.
func ExpandStage(fetcher PathFetcher) Stage {
	return Stage{Name: StageExpand, Run: func(ctx context.Context, s *State) error {
		if s.Match.ProcedureID == "" {
			s.Procedure = []string{}
			return nil
		}
		steps, err := fetcher.FetchPath(ctx, s.Match.ProcedureID)
		if err != nil {
			return err //nolint:wrapcheck // wrapped with the stage name by the runner
		}
		s.Procedure = steps
		return nil
	}}
}

// AssembleStage builds the external answer. Procedure is never nil.
func AssembleStage() Stage {
	return Stage{Name: StageAssemble, Run: func(_ context.Context, s *State) error {
		procedure := s.Procedure
		if procedure == nil {
			procedure = []string{}
		}
		s.Answer = domain.Answer{
			Procedure: procedure,
			Article:   s.Match.Article,
			Script:    s.Match.Script,
		}
		return nil
	}}
}
