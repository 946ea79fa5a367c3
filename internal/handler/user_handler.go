package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"booking-api/internal/model"
	"booking-api/internal/service"
)

type UserHandler struct {
	users        *service.UserService
	appointments *service.AppointmentService
}

func NewUserHandler(users *service.UserService, appointments *service.AppointmentService) *UserHandler {
	return &UserHandler{users: users, appointments: appointments}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateProfileRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.UpdateProfile(r.Context(), actorID(r), payload); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Profile updated successfully")
}

// Appointments lists the appointments owned by the user named in the path.
func (h *UserHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointments.ListForOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (h *UserHandler) AdminWelcome(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "Welcome, admin!")
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListNonAdmins(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateRoleRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.UpdateRole(r.Context(), chi.URLParam(r, "id"), payload.Role, actorID(r)); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "User role updated successfully")
}
