package model

import "time"

type RegisterRequest struct {
	FullName    string `json:"fullname" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required,max=72"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

type UpdateProfileRequest struct {
	FullName        *string `json:"fullname"`
	Email           *string `json:"email" validate:"omitempty,email"`
	PhoneNumber     *string `json:"phone_number"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" validate:"omitempty,max=72"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type CreateAppointmentRequest struct {
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	PhoneNumber string     `json:"phoneNumber" validate:"required"`
	Date        *time.Time `json:"date" validate:"required"`
	Category    *string    `json:"category"`
}

type UpdateAppointmentRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateServiceRequest struct {
	Icon        string  `json:"icon" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}
