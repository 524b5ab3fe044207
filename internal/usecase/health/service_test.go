package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err    error
	called int
}

func (m *mockPinger) Ping(context.Context) error {
	m.called++
	return m.err
}

type mockChecker struct {
	err    error
	called int
}

func (m *mockChecker) HealthCheck(context.Context) error {
	m.called++
	return m.err
}

func TestCheck_AllHealthy(t *testing.T) {
	db := &mockPinger{}
	comp := &mockChecker{}
	svc := New(db, comp)

	rep := svc.Check(context.Background())

	if rep.Status != Healthy {
		t.Errorf("status = %q, want ok", rep.Status)
	}
	if rep.Checks["database"] != CheckOK || rep.Checks["completion"] != CheckOK {
		t.Errorf("checks = %v", rep.Checks)
	}
	if db.called != 1 || comp.called != 1 {
		t.Errorf("calls = %d / %d, want 1 / 1", db.called, comp.called)
	}
}

func TestCheck_DatabaseFailureDegrades(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("down")}, &mockChecker{})

	rep := svc.Check(context.Background())

	if rep.Status != Degraded {
		t.Errorf("status = %q, want degraded", rep.Status)
	}
	if rep.Checks["database"] != CheckError {
		t.Errorf("database check = %q", rep.Checks["database"])
	}
	if rep.Checks["completion"] != CheckOK {
		t.Errorf("completion check = %q", rep.Checks["completion"])
	}
}

func TestCheck_CompletionFailureDegrades(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("unauthorized")})

	rep := svc.Check(context.Background())
	if rep.Status != Degraded {
		t.Errorf("status = %q, want degraded", rep.Status)
	}
}

func TestCheck_NilCompletionCheckerSkipped(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	rep := svc.Check(context.Background())
	if rep.Status != Healthy {
		t.Errorf("status = %q, want ok", rep.Status)
	}
	if _, ok := rep.Checks["completion"]; ok {
		t.Error("completion check should be absent when no checker is configured")
	}
}
