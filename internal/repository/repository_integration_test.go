//go:build integration

package repository

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"booking-api/internal/database"
	"booking-api/internal/model"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("booking"),
		postgres.WithUsername("booking"),
		postgres.WithPassword("booking"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, database.InitialSchema())
	require.NoError(t, err)
	return pool
}

func seedUser(t *testing.T, repo *UserRepository, username string, role string) model.User {
	t.Helper()
	u, err := repo.Create(context.Background(), model.User{
		ID:           uuid.NewString(),
		FullName:     username,
		Email:        username + "@example.com",
		PhoneNumber:  "555-0100",
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func newAppointment(ownerID string, at time.Time) model.Appointment {
	return model.Appointment{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Name:        "Ana",
		Email:       "ana@example.com",
		PhoneNumber: "555-0101",
		Date:        at,
		Status:      model.StatusPending,
	}
}

func TestIntegration_Repositories(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	appointments := NewAppointmentRepository(pool)
	services := NewServiceRepository(pool)

	owner := seedUser(t, users, "owner", model.RoleUser)

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		_, err := users.Create(ctx, model.User{
			ID: uuid.NewString(), FullName: "x", Email: "OWNER@example.com",
			PhoneNumber: "1", Username: "other", PasswordHash: "h", Role: model.RoleUser,
		})
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("second active booking at same instant conflicts", func(t *testing.T) {
		at := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
		_, err := appointments.Create(ctx, newAppointment(owner.ID, at))
		require.NoError(t, err)

		_, err = appointments.Create(ctx, newAppointment(owner.ID, at))
		assert.ErrorIs(t, err, model.ErrSlotConflict)

		exists, err := appointments.ExistsActiveAt(ctx, at)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("cancelled booking frees the slot and cannot be reactivated onto it", func(t *testing.T) {
		at := time.Date(2030, 1, 11, 9, 0, 0, 0, time.UTC)
		first, err := appointments.Create(ctx, newAppointment(owner.ID, at))
		require.NoError(t, err)

		_, err = appointments.UpdateStatus(ctx, first.ID, model.StatusCancelled)
		require.NoError(t, err)

		_, err = appointments.Create(ctx, newAppointment(owner.ID, at))
		require.NoError(t, err)

		_, err = appointments.UpdateStatus(ctx, first.ID, model.StatusPending)
		assert.ErrorIs(t, err, model.ErrSlotConflict)
	})

	t.Run("concurrent double booking admits exactly one", func(t *testing.T) {
		at := time.Date(2030, 1, 12, 9, 0, 0, 0, time.UTC)
		const writers = 8

		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = appointments.Create(ctx, newAppointment(owner.ID, at))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, model.ErrSlotConflict)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		_, err := appointments.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, model.ErrAppointmentNotFound)
		assert.ErrorIs(t, appointments.Delete(ctx, uuid.NewString()), model.ErrAppointmentNotFound)

		owned, err := appointments.ListByOwner(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.Empty(t, owned)
	})

	t.Run("last admin cannot be demoted or deleted", func(t *testing.T) {
		admin := seedUser(t, users, "root", model.RoleAdmin)

		assert.ErrorIs(t, users.UpdateRole(ctx, admin.ID, model.RoleUser), model.ErrLastAdmin)
		assert.ErrorIs(t, users.Delete(ctx, admin.ID), model.ErrLastAdmin)

		second := seedUser(t, users, "root2", model.RoleAdmin)
		require.NoError(t, users.UpdateRole(ctx, admin.ID, model.RoleUser))
		assert.ErrorIs(t, users.Delete(ctx, second.ID), model.ErrLastAdmin)
	})

	t.Run("partial service update keeps untouched fields", func(t *testing.T) {
		desc := "Wash and cut"
		created, err := services.Create(ctx, model.ServiceOffering{
			ID: uuid.NewString(), Icon: "scissors", Title: "Haircut",
			Description: &desc, Category: model.DefaultServiceCategory,
		})
		require.NoError(t, err)

		title := "Premium haircut"
		updated, err := services.Update(ctx, created.ID, model.ServiceOfferingPatch{Title: &title})
		require.NoError(t, err)

		assert.Equal(t, "Premium haircut", updated.Title)
		assert.Equal(t, "scissors", updated.Icon)
		require.NotNil(t, updated.Description)
		assert.Equal(t, desc, *updated.Description)
		assert.Equal(t, model.DefaultServiceCategory, updated.Category)
	})

	t.Run("audit entries filter by action", func(t *testing.T) {
		audit := NewAuditRepository(pool)
		require.NoError(t, audit.Log(ctx, model.AuditEntry{
			Action: "appointment.created", OccurredAt: time.Now().UTC(),
			ActorID: owner.ID, Resource: "a1", Payload: map[string]any{"status": "pending"},
		}))
		require.NoError(t, audit.Log(ctx, model.AuditEntry{
			Action: "service.deleted", OccurredAt: time.Now().UTC(), Resource: "s1",
		}))

		entries, meta, err := audit.Query(ctx, model.AuditQuery{Action: "appointment.created"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, owner.ID, entries[0].ActorID)
		assert.Equal(t, 1, meta.Total)
		assert.Equal(t, defaultAuditLimit, meta.Limit)

		entries, _, err = audit.Query(ctx, model.AuditQuery{Resource: "%"})
		require.NoError(t, err)
		assert.Empty(t, entries)

		entries, meta, err = audit.Query(ctx, model.AuditQuery{Resource: "a1"})
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		entries, meta, err = audit.Query(ctx, model.AuditQuery{Page: math.MaxInt, Limit: maxAuditLimit})
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.Equal(t, maxAuditPage, meta.Page)
	})
}
