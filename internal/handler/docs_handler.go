package handler

import (
	"net/http"
	"os"
	"strings"

	"booking-api/pkg/apierror"
)

type DocsHandler struct {
	specPath string
}

func NewDocsHandler(specPath string) *DocsHandler {
	return &DocsHandler{specPath: strings.TrimSpace(specPath)}
}

// OpenAPI serves the API description from disk so it can be edited without a rebuild.
func (h *DocsHandler) OpenAPI(w http.ResponseWriter, _ *http.Request) {
	if h.specPath == "" {
		writeError(w, apierror.New("NOT_FOUND", "API description not configured", "", http.StatusNotFound))
		return
	}

	content, err := os.ReadFile(h.specPath)
	if err != nil {
		writeError(w, apierror.New("NOT_FOUND", "API description not found", "", http.StatusNotFound))
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
