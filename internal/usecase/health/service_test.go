package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockIndex struct {
	pingErr  error
	count    int
	countErr error
	counted  bool
	deadline bool
}

func (m *mockIndex) Ping(ctx context.Context) error {
	_, m.deadline = ctx.Deadline()
	return m.pingErr
}

func (m *mockIndex) Count(context.Context) (int, error) {
	m.counted = true
	return m.count, m.countErr
}

func TestCheck_Healthy(t *testing.T) {
	r := New(&mockIndex{count: 4}, 0).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["index"] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks["index"])
	}
	if r.Listings != 4 {
		t.Errorf("expected 4 listings, got %d", r.Listings)
	}
}

func TestCheck_IndexDown(t *testing.T) {
	idx := &mockIndex{pingErr: errors.New("conn refused")}
	r := New(idx, 0).Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["index"] != CheckError {
		t.Errorf("expected index %q, got %q", CheckError, r.Checks["index"])
	}
	if r.Listings != UnknownCount {
		t.Errorf("expected unknown count, got %d", r.Listings)
	}
	if idx.counted {
		t.Error("count must be skipped when ping fails")
	}
}

func TestCheck_CountFailureKeepsHealthy(t *testing.T) {
	r := New(&mockIndex{countErr: errors.New("FT.SEARCH timeout")}, 0).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Listings != UnknownCount {
		t.Errorf("expected unknown count, got %d", r.Listings)
	}
}

func TestCheck_Timeout(t *testing.T) {
	idx := &mockIndex{}
	New(idx, time.Second).Check(context.Background())
	if !idx.deadline {
		t.Error("expected ping to run with a deadline")
	}

	idx = &mockIndex{}
	New(idx, 0).Check(context.Background())
	if idx.deadline {
		t.Error("expected no deadline without a timeout")
	}
}
