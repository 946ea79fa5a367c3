package model

import (
	"strings"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus accepts only the four known statuses.
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	switch status := AppointmentStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Appointment struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	PhoneNumber string            `json:"phoneNumber"`
	Date        time.Time         `json:"date"`
	Category    *string           `json:"category"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewAppointment is the caller-supplied part of an appointment.
type NewAppointment struct {
	Name        string
	Email       string
	PhoneNumber string
	Date        time.Time
	Category    *string
}
