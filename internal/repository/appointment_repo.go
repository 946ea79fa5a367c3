package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-api/internal/model"
)

const appointmentColumns = `id, user_id, name, email, phone_number, date, category, status, created_at, updated_at`

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Email, &a.PhoneNumber,
		&a.Date, &a.Category, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// ExistsActiveAt reports whether any non-cancelled appointment is stored at exactly date.
func (r *AppointmentRepository) ExistsActiveAt(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM appointments WHERE date = $1 AND status <> 'cancelled'
		 )`, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return exists, nil
}

// Create inserts a. The partial unique index on active slots is the final arbiter
// when two writers pass the existence check at the same time.
func (r *AppointmentRepository) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	created, err := scanAppointment(r.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, user_id, name, email, phone_number, date, category, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+appointmentColumns,
		a.ID, a.UserID, a.Name, a.Email, a.PhoneNumber, a.Date, a.Category, a.Status))
	if uniqueViolation(err, activeSlotIndex) {
		return model.Appointment{}, model.ErrSlotConflict
	}
	if err != nil {
		return model.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return created, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (model.Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) || invalidText(err) {
		return model.Appointment{}, model.ErrAppointmentNotFound
	}
	if err != nil {
		return model.Appointment{}, fmt.Errorf("find appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	return r.query(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY date DESC`)
}

// ListByOwner answers an owner id that is not a uuid with an empty list, like any
// other owner without appointments.
func (r *AppointmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Appointment, error) {
	appointments, err := r.query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE user_id = $1 ORDER BY date DESC`, ownerID)
	if invalidText(err) {
		return []model.Appointment{}, nil
	}
	return appointments, err
}

func (r *AppointmentRepository) query(ctx context.Context, sql string, args ...any) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`UPDATE appointments SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+appointmentColumns, id, status))
	switch {
	case errors.Is(err, pgx.ErrNoRows) || invalidText(err):
		return model.Appointment{}, model.ErrAppointmentNotFound
	case uniqueViolation(err, activeSlotIndex):
		// un-cancelling onto a slot somebody else has taken since
		return model.Appointment{}, model.ErrSlotConflict
	case checkViolation(err, appointmentsStatusCheck):
		return model.Appointment{}, model.ErrInvalidStatus
	case err != nil:
		return model.Appointment{}, fmt.Errorf("update appointment status: %w", err)
	}
	return a, nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if invalidText(err) {
		return model.ErrAppointmentNotFound
	}
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAppointmentNotFound
	}
	return nil
}
