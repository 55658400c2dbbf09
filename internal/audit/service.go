// Package audit records the catalog mutations performed through the web
// interface and the seed command.
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/entities"
)

const writeTimeout = 5 * time.Second

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	logger  *zap.Logger
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := s.repo.LogEvent(ctx, event); err != nil {
			s.logger.Error("failed to log audit event",
				zap.String("action", event.Action),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every event passed to LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Mutation describes one create, update or delete of a catalog record.
type Mutation struct {
	Type     entities.AuditEventType
	Kind     entities.Kind
	ID       string
	Label    string
	ClientIP string
	Err      error
}

// LogMutation records a catalog mutation.
func (s *Service) LogMutation(m Mutation) {
	event := &entities.AuditEvent{
		EventType:   m.Type,
		Action:      string(m.Kind) + "_" + string(m.Type),
		Description: describe(m),
		EntityType:  m.Kind,
		EntityID:    m.ID,
		IPAddress:   m.ClientIP,
		Status:      entities.AuditStatusSuccess,
	}

	if m.Err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(m.Err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, kind entities.Kind, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, kind, limit, offset)
}

// GetEntityEvents retrieves the history of one record.
func (s *Service) GetEntityEvents(ctx context.Context, kind entities.Kind, id string) ([]entities.AuditEvent, error) {
	return s.repo.GetEntityEvents(ctx, kind, id)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

var verbs = map[entities.AuditEventType]string{
	entities.AuditEventCreate: "Created",
	entities.AuditEventUpdate: "Updated",
	entities.AuditEventDelete: "Deleted",
}

func describe(m Mutation) string {
	verb, ok := verbs[m.Type]
	if !ok {
		verb = string(m.Type)
	}
	if m.Label == "" {
		return verb + " " + string(m.Kind)
	}
	return truncate(verb+" "+string(m.Kind)+": "+m.Label, 500)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
