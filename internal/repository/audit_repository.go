package repository

import (
	"context"

	"github.com/colposcopia/colpo-api/internal/domain"
	"github.com/colposcopia/colpo-api/internal/service"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ service.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
