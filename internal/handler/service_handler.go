package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"booking-api/internal/model"
	"booking-api/internal/service"
)

// ServiceHandler serves the offerings catalog.
type ServiceHandler struct {
	catalog *service.CatalogService
}

func NewServiceHandler(catalog *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateServiceRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.catalog.Create(r.Context(), payload, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	offering, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offering)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.ServiceOfferingPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Service updated successfully",
		"data":    updated,
	})
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Service deleted successfully")
}
