package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"booking-api/internal/middleware"
	"booking-api/internal/model"
	"booking-api/pkg/apierror"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{model.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", "User not found"},
	{model.ErrAppointmentNotFound, http.StatusNotFound, "NOT_FOUND", "Appointment not found"},
	{model.ErrServiceNotFound, http.StatusNotFound, "NOT_FOUND", "Service not found"},
	{model.ErrUserAlreadyExists, http.StatusBadRequest, "ALREADY_EXISTS", "Username or email already exists"},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials"},
	{model.ErrWrongPassword, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password is incorrect"},
	{model.ErrInvalidToken, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "authentication required"},
	{model.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "insufficient permissions"},
	{model.ErrInvalidRole, http.StatusBadRequest, "VALIDATION_ERROR", "Role must be one of: user, admin"},
	{model.ErrLastAdmin, http.StatusBadRequest, "LAST_ADMIN", "Cannot remove the last admin user"},
	{model.ErrSlotConflict, http.StatusConflict, "SLOT_CONFLICT", "This time slot is already booked"},
	{model.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS", "Status must be one of: pending, confirmed, completed, cancelled"},
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	writeJSON(w, status, model.APIResponse{Success: true, Data: data, Meta: meta})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if mapping, ok := lookupError(err); ok {
		status = mapping.status
		body.Code = mapping.code
		body.Message = mapping.message
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.APIResponse{Success: false, Error: body})
}

func lookupError(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return errorMapping{}, false
}

// actorID is the id of the authenticated caller, empty on public routes.
func actorID(r *http.Request) string {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return ""
}
