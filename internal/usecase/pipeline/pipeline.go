// Package pipeline turns a question into an Answer: Match -> Expand -> Assemble.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/domain"
	"github.com/kailas-cloud/helpdex/internal/logger"
	"github.com/kailas-cloud/helpdex/internal/metrics"
)

// DefaultTopK is the number of neighbours the match stage inspects.
const DefaultTopK = 5

// Pipeline is shared by every shell. It holds no per-request state.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
	newID  func() string
}

// New wires the default stages. topK <= 0 selects DefaultTopK.
func New(searcher Searcher, fetcher PathFetcher, topK int, log *zap.Logger) *Pipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return NewWithStages(log,
		MatchStage(searcher, topK),
		ExpandStage(fetcher),
		AssembleStage(),
	)
}

// NewWithStages builds a pipeline from an explicit stage list.
func NewWithStages(log *zap.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, logger: log, newID: uuid.NewString}
}

// Answer runs the pipeline and returns only the external answer.
func (p *Pipeline) Answer(ctx context.Context, query string) (domain.Answer, error) {
	s, err := p.Run(ctx, query)
	if err != nil {
		return domain.Answer{}, err
	}
	return s.Answer, nil
}

// Run executes every stage in order; the first error aborts the request.
// Any text is a valid query, including an empty one.
func (p *Pipeline) Run(ctx context.Context, query string) (*State, error) {
	s := &State{QueryID: p.newID(), Query: query}

	base := p.logger
	if l, ok := logger.Lookup(ctx); ok {
		base = l
	}
	log := base.With(zap.String("query_id", s.QueryID))
	ctx = logger.ContextWithLogger(ctx, log)

	for _, st := range p.stages {
		start := time.Now()
		err := st.Run(ctx, s)
		metrics.PipelineStageDuration.WithLabelValues(st.Name).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.AnswersTotal.WithLabelValues("error").Inc()
			log.Warn("Pipeline stage failed", zap.String("stage", st.Name), zap.Error(err))
			return nil, fmt.Errorf("%s stage: %w", st.Name, err)
		}
	}

	outcome := "ok"
	if s.Answer.IsEmpty() {
		outcome = "empty"
	}
	metrics.AnswersTotal.WithLabelValues(outcome).Inc()

	log.Debug("Question answered",
		zap.Int("hits", len(s.Hits)),
		zap.String("procedure_id", s.Match.ProcedureID),
		zap.Int("steps", len(s.Answer.Procedure)),
		zap.String("outcome", outcome),
	)
	return s, nil
}
