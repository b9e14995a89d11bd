package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type slowPinger struct{}

func (slowPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[ComponentGraph] != CheckOK {
		t.Errorf("expected graph %q, got %q", CheckOK, r.Checks[ComponentGraph])
	}
	if r.Checks[ComponentEmbedding] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks[ComponentEmbedding])
	}
}

func TestCheck_GraphError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentGraph] != CheckError {
		t.Errorf("expected graph %q, got %q", CheckError, r.Checks[ComponentGraph])
	}
	if r.Checks[ComponentEmbedding] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks[ComponentEmbedding])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(&mockPinger{}, &mockEmbeddingChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
}

func TestCheck_AllFailing(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("down")}, &mockEmbeddingChecker{err: errors.New("down")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NilEmbedding(t *testing.T) {
	svc := New(&mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[ComponentEmbedding]; ok {
		t.Error("embedding check must be absent when no checker is configured")
	}
}

func TestCheck_Cache(t *testing.T) {
	svc := New(&mockPinger{}, nil).WithCache(&mockPinger{err: errors.New("down")})
	r := svc.Check(context.Background())

	if r.Checks[ComponentCache] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks[ComponentCache])
	}
	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
}

func TestCheck_Timeout(t *testing.T) {
	svc := New(slowPinger{}, nil).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())

	if r.Checks[ComponentGraph] != CheckError {
		t.Errorf("expected slow graph to fail, got %q", r.Checks[ComponentGraph])
	}
	if time.Since(start) > time.Second {
		t.Errorf("check did not honour timeout")
	}
}
