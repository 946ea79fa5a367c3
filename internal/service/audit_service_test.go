package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"booking-api/internal/event"
	"booking-api/internal/model"
	"booking-api/internal/repository"
	"booking-api/pkg/apierror"
)

func TestAuditService_RunRecordsEvents(t *testing.T) {
	store := new(repository.MockAuditRepository)
	bus := event.NewBus()
	svc := NewAuditService(store, bus)

	logged := make(chan model.AuditEntry, 1)
	store.On("Log", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		select {
		case logged <- args.Get(1).(model.AuditEntry):
		default:
		}
	}).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	// Run subscribes asynchronously; publish until the first entry lands.
	var entry model.AuditEntry
	require.Eventually(t, func() bool {
		bus.Publish(event.Event{Type: event.TypeServiceDeleted, Resource: "s-1", ActorID: "admin-1"})
		select {
		case entry = <-logged:
			return true
		case <-time.After(10 * time.Millisecond):
			return false
		}
	}, time.Second, 20*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, "service.deleted", entry.Action)
	assert.Equal(t, "s-1", entry.Resource)
	assert.Equal(t, "admin-1", entry.ActorID)
	assert.False(t, entry.OccurredAt.IsZero())
}

func TestAuditService_QueryValidatesTimes(t *testing.T) {
	store := new(repository.MockAuditRepository)
	svc := NewAuditService(store, event.NewBus())

	_, _, err := svc.Query(context.Background(), model.AuditQuery{From: "yesterday"})
	assert.Equal(t, 400, apierror.Status(err))

	query := model.AuditQuery{From: "2026-01-01T00:00:00Z", Action: "user.deleted"}
	store.On("Query", mock.Anything, query).Return([]model.AuditEntry{{Action: "user.deleted"}}, model.Meta{Total: 1}, nil)

	entries, meta, err := svc.Query(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, meta.Total)
}
