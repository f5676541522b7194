package seed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
)

type mockIndex struct {
	mu       sync.Mutex
	count    int
	countErr error
	saveErr  error
	saved    map[string]domlisting.Listing
}

func (m *mockIndex) Save(_ context.Context, l *domlisting.Listing) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]domlisting.Listing)
	}
	m.saved[l.ID()] = *l
	return nil
}

func (m *mockIndex) Count(_ context.Context) (int, error) { return m.count, m.countErr }

func TestRun_EmptyIndex(t *testing.T) {
	idx := &mockIndex{}
	svc := New(idx, 2, zap.NewNop())

	n, err := svc.Run(context.Background())
	require.NoError(t, err)

	samples := domlisting.Samples()
	assert.Equal(t, len(samples), n)
	require.Len(t, idx.saved, len(samples))
	for _, d := range samples {
		l, ok := idx.saved[d.ID]
		require.True(t, ok, "missing sample %s", d.Name)
		assert.Equal(t, d.Name, l.Name())
	}
}

func TestRun_Idempotent(t *testing.T) {
	idx := &mockIndex{count: 4}
	svc := New(idx, 2, nil)

	n, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, idx.saved)
}

func TestRun_CountError(t *testing.T) {
	idx := &mockIndex{countErr: errors.New("connection refused")}

	_, err := New(idx, 1, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count listings")
}

func TestRun_SaveError(t *testing.T) {
	boom := errors.New("disk full")
	idx := &mockIndex{saveErr: boom}

	n, err := New(idx, 4, nil).Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestRun_InvalidSample(t *testing.T) {
	idx := &mockIndex{}
	svc := New(idx, 1, nil)
	svc.drafts = func() []domlisting.Draft {
		return []domlisting.Draft{{ID: "ok-1", Name: "   "}}
	}

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, idx.saved)
}
