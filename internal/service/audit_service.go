package service

import (
	"context"
	"sync"
	"time"

	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

type AuditService struct {
	repo      AuditRepository
	collector *metrics.Collector
	log       *zap.Logger
	entries   chan *domain.AuditLog
	done      chan struct{}
	stop      sync.Once
}

const auditBufferSize = 10_000

func NewAuditService(repo AuditRepository, collector *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:      repo,
		collector: collector,
		log:       log,
		entries:   make(chan *domain.AuditLog, auditBufferSize),
		done:      make(chan struct{}),
	}
	go svc.worker()
	return svc
}

type requestIDKey struct{}

// ContextWithRequestID stamps a context with the request identifier so the
// audit trail keeps its correlation with the access log.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(ctx context.Context, entry AuditEntry) {
	if entry.RequestID == "" {
		entry.RequestID = requestIDFromContext(ctx)
	}
	al := &domain.AuditLog{
		Actor:        entry.Actor,
		Action:       domain.AuditAction(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		IPAddress:    entry.IPAddress,
		RequestID:    entry.RequestID,
		Detail:       entry.Detail,
	}

	select {
	case s.entries <- al:
	default:
		s.collector.AuditBufferDropped.Inc()
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("resource", entry.ResourceType),
		)
	}
}

// Shutdown drains the buffer and stops the worker. Safe to call more than
// once.
func (s *AuditService) Shutdown() {
	s.stop.Do(func() {
		close(s.entries)
		select {
		case <-s.done:
		case <-time.After(10 * time.Second):
			s.log.Warn("audit service shutdown timed out; some entries may be lost")
		}
	})
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else {
			s.collector.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}
