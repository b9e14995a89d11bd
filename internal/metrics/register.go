package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors returns every helpdex collector.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestDuration,
		httpRequestsTotal,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingErrorsTotal,
		EmbeddingCacheTotal,
		PipelineStageDuration,
		AnswersTotal,
		GraphQueriesTotal,
		IndexDocuments,
	}
}

// Register adds all collectors to reg. Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}
