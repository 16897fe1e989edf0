package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testCollector is shared by every fixture in this package; prometheus
// forbids registering the same metric twice in one process.
var testCollector = metrics.NewCollector("servicetest")

type capturingAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *capturingAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *capturingAuditRepo) all() []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AuditLog(nil), r.entries...)
}

type blockingAuditRepo struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	select {
	case r.started <- struct{}{}:
	default:
	}
	<-r.release
	return nil
}

func TestAuditServicePersistsEntries(t *testing.T) {
	repo := &capturingAuditRepo{}
	svc := NewAuditService(repo, testCollector, zap.NewNop())

	written := testutil.ToFloat64(testCollector.AuditEntriesTotal)

	svc.LogAsync(context.Background(), AuditEntry{
		Actor:        "doc@clinic",
		Action:       "create",
		ResourceType: "patient",
		ResourceID:   "7",
		IPAddress:    "127.0.0.1",
	})
	svc.Shutdown()

	entries := repo.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "doc@clinic", entries[0].Actor)
	assert.Equal(t, domain.AuditAction("create"), entries[0].Action)
	assert.Equal(t, written+1, testutil.ToFloat64(testCollector.AuditEntriesTotal))
}

func TestAuditServiceRequestIDFromContext(t *testing.T) {
	repo := &capturingAuditRepo{}
	svc := NewAuditService(repo, testCollector, zap.NewNop())

	ctx := ContextWithRequestID(context.Background(), "req-1234")
	svc.LogAsync(ctx, AuditEntry{
		Actor:        "doc@clinic",
		Action:       "update",
		ResourceType: "exam",
		ResourceID:   "3",
	})
	// An explicitly set id wins over the context.
	svc.LogAsync(ctx, AuditEntry{
		Actor:        "doc@clinic",
		Action:       "delete",
		ResourceType: "exam",
		ResourceID:   "4",
		RequestID:    "req-explicit",
	})
	svc.Shutdown()

	entries := repo.all()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1234", entries[0].RequestID)
	assert.Equal(t, "req-explicit", entries[1].RequestID)
}

func TestAuditServiceDropsWhenBufferFull(t *testing.T) {
	repo := &blockingAuditRepo{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := NewAuditService(repo, testCollector, zap.NewNop())

	dropped := testutil.ToFloat64(testCollector.AuditBufferDropped)

	// One entry parks the worker inside Create, the rest fill the buffer.
	svc.LogAsync(context.Background(), AuditEntry{Actor: "a", Action: "read", ResourceType: "patient"})
	<-repo.started
	for i := 0; i < auditBufferSize; i++ {
		svc.LogAsync(context.Background(), AuditEntry{
			Actor:        "a",
			Action:       "read",
			ResourceType: "patient",
			ResourceID:   fmt.Sprint(i),
		})
	}

	svc.LogAsync(context.Background(), AuditEntry{Actor: "a", Action: "read", ResourceType: "patient"})
	assert.Equal(t, dropped+1, testutil.ToFloat64(testCollector.AuditBufferDropped))

	close(repo.release)
	svc.Shutdown()
}
