package service

import (
	"context"
	"time"

	"booking-api/internal/model"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email string, username string) (bool, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role string) error
	Delete(ctx context.Context, id string) error
	ListExcludingRole(ctx context.Context, role string) ([]model.User, error)
	Count(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountByRole(ctx context.Context) ([]model.RoleCount, error)
}

type appointmentStore interface {
	ExistsActiveAt(ctx context.Context, date time.Time) (bool, error)
	Create(ctx context.Context, a model.Appointment) (model.Appointment, error)
	FindByID(ctx context.Context, id string) (model.Appointment, error)
	List(ctx context.Context) ([]model.Appointment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error)
	Delete(ctx context.Context, id string) error
}

type catalogStore interface {
	Create(ctx context.Context, s model.ServiceOffering) (model.ServiceOffering, error)
	List(ctx context.Context) ([]model.ServiceOffering, error)
	FindByID(ctx context.Context, id string) (model.ServiceOffering, error)
	Update(ctx context.Context, id string, patch model.ServiceOfferingPatch) (model.ServiceOffering, error)
	Delete(ctx context.Context, id string) error
}

type auditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}
