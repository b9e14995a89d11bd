package chi

import (
	"context"

	"github.com/kailas-cloud/helpdex/internal/domain"
	healthuc "github.com/kailas-cloud/helpdex/internal/usecase/health"
)

// Answerer produces an answer for a free-text question.
type Answerer interface {
	Answer(ctx context.Context, query string) (domain.Answer, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
