package audit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

const defaultLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(event).Error, "log audit event")
}

// GetEvents retrieves paginated audit events, most recent first. An empty
// kind returns events for every entity type.
func (r *Repository) GetEvents(ctx context.Context, kind entities.Kind, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if kind != "" {
		query = query.Where("entity_type = ?", kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count audit events")
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list audit events")
	}
	return events, total, nil
}

// GetEntityEvents returns the history of one record, most recent first.
func (r *Repository) GetEntityEvents(ctx context.Context, kind entities.Kind, id string) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", kind, id).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	return events, errors.Wrap(err, "list entity audit events")
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, errors.Wrap(result.Error, "delete old audit events")
}
