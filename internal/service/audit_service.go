package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"booking-api/internal/event"
	"booking-api/internal/model"
	"booking-api/pkg/apierror"
)

type AuditService struct {
	store auditStore
	bus   event.Bus
}

func NewAuditService(store auditStore, bus event.Bus) *AuditService {
	return &AuditService{store: store, bus: bus}
}

// Run records every published event until ctx is cancelled. Write failures are
// logged and dropped.
func (s *AuditService) Run(ctx context.Context) {
	events, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.record(ctx, e)
		}
	}
}

func (s *AuditService) record(ctx context.Context, e event.Event) {
	occurredAt, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	entry := model.AuditEntry{
		Action:     string(e.Type),
		OccurredAt: occurredAt,
		ActorID:    e.ActorID,
		Resource:   e.Resource,
		Payload:    e.Payload,
	}
	if err := s.store.Log(ctx, entry); err != nil {
		slog.Error("audit write failed", "action", entry.Action, "resource", entry.Resource, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	if err := validateAuditTime(query.From); err != nil {
		return nil, model.Meta{}, apierror.New("VALIDATION_ERROR", "invalid 'from' datetime format", query.From, http.StatusBadRequest)
	}
	if err := validateAuditTime(query.To); err != nil {
		return nil, model.Meta{}, apierror.New("VALIDATION_ERROR", "invalid 'to' datetime format", query.To, http.StatusBadRequest)
	}
	return s.store.Query(ctx, query)
}

func validateAuditTime(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	_, err := time.Parse(time.RFC3339, trimmed)
	return err
}
