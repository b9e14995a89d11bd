// Package health aggregates component checks for the /health endpoint.
package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentGraph     = "graph"
	ComponentEmbedding = "embedding"
	ComponentCache     = "cache"
)

// DefaultTimeout bounds every individual check.
const DefaultTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type check func(ctx context.Context) error

// Service coordinates health checks.
type Service struct {
	checks  map[string]check
	timeout time.Duration
}

// New creates a Service. embedding can be nil.
func New(graph Pinger, embedding EmbeddingChecker) *Service {
	s := &Service{checks: map[string]check{}, timeout: DefaultTimeout}
	s.checks[ComponentGraph] = graph.Ping
	if embedding != nil {
		s.checks[ComponentEmbedding] = embedding.HealthCheck
	}
	return s
}

// WithCache adds the embedding cache store to the report.
func (s *Service) WithCache(cache Pinger) *Service {
	if cache != nil {
		s.checks[ComponentCache] = cache.Ping
	}
	return s
}

// WithTimeout overrides DefaultTimeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs all component checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(s.checks))
	)

	for name, fn := range s.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := CheckOK
			if err := fn(cctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks) && failed > 0:
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
