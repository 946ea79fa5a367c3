package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"booking-api/internal/event"
	"booking-api/internal/model"
	"booking-api/internal/util"
	"booking-api/pkg/apierror"
)

// BookingRecorder counts scheduling outcomes.
type BookingRecorder interface {
	AppointmentBooked()
	SlotConflict()
}

type nopRecorder struct{}

func (nopRecorder) AppointmentBooked() {}
func (nopRecorder) SlotConflict()      {}

type AppointmentService struct {
	appointments appointmentStore
	bus          event.Bus
	recorder     BookingRecorder
}

func NewAppointmentService(appointments appointmentStore, bus event.Bus, recorder BookingRecorder) *AppointmentService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AppointmentService{appointments: appointments, bus: bus, recorder: recorder}
}

// SlotTime normalizes a requested time the way it is stored: UTC, microsecond precision.
func SlotTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Create books a slot for ownerID. Any non-cancelled appointment at the same instant,
// whoever owns it, makes the slot unavailable.
func (s *AppointmentService) Create(ctx context.Context, ownerID string, in model.NewAppointment) (model.Appointment, error) {
	in.Name = util.SanitizeText(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.Name == "" || in.Email == "" || in.PhoneNumber == "" || in.Date.IsZero() {
		return model.Appointment{}, apierror.BadRequest("missing required fields", "name, email, phoneNumber and date are required")
	}

	date := SlotTime(in.Date)
	taken, err := s.appointments.ExistsActiveAt(ctx, date)
	if err != nil {
		return model.Appointment{}, err
	}
	if taken {
		s.recorder.SlotConflict()
		return model.Appointment{}, model.ErrSlotConflict
	}

	var category *string
	if in.Category != nil {
		if cleaned := util.SanitizeText(*in.Category); cleaned != "" {
			category = &cleaned
		}
	}

	created, err := s.appointments.Create(ctx, model.Appointment{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Date:        date,
		Category:    category,
		Status:      model.StatusPending,
	})
	if errors.Is(err, model.ErrSlotConflict) {
		s.recorder.SlotConflict()
		return model.Appointment{}, err
	}
	if err != nil {
		return model.Appointment{}, err
	}

	s.recorder.AppointmentBooked()
	publish(s.bus, event.TypeAppointmentCreated, created.ID, ownerID, map[string]any{
		"date":   created.Date,
		"status": created.Status,
	})
	return created, nil
}

func (s *AppointmentService) List(ctx context.Context) ([]model.Appointment, error) {
	return s.appointments.List(ctx)
}

func (s *AppointmentService) ListForOwner(ctx context.Context, ownerID string) ([]model.Appointment, error) {
	return s.appointments.ListByOwner(ctx, ownerID)
}

func (s *AppointmentService) Get(ctx context.Context, id string) (model.Appointment, error) {
	return s.appointments.FindByID(ctx, id)
}

// UpdateStatus overwrites the status with any member of the closed status set.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, rawStatus string, actorID string) (model.Appointment, error) {
	status, err := model.ParseAppointmentStatus(rawStatus)
	if err != nil {
		return model.Appointment{}, err
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, status)
	if errors.Is(err, model.ErrSlotConflict) {
		s.recorder.SlotConflict()
	}
	if err != nil {
		return model.Appointment{}, err
	}

	publish(s.bus, event.TypeAppointmentStatusChanged, id, actorID, map[string]any{"status": status})
	return updated, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string, actorID string) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	publish(s.bus, event.TypeAppointmentDeleted, id, actorID, nil)
	return nil
}
