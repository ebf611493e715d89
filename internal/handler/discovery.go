// Package handler provides the HTTP/JSON bridge to the networking core.
package handler

import (
	"net/http"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

// DiscoveryHandler handles the profile and opportunity listings.
type DiscoveryHandler struct {
	service *service.DiscoveryService
	logger  *logger.Logger
}

// NewDiscoveryHandler creates a new discovery handler.
func NewDiscoveryHandler(svc *service.DiscoveryService, log *logger.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		service: svc,
		logger:  log,
	}
}

// Profiles handles GET /api/v1/profiles
func (h *DiscoveryHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r, catalog.Profiles)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Profiles(r.Context(), middleware.GetActor(r.Context()), opts)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Opportunities handles GET /api/v1/opportunities
func (h *DiscoveryHandler) Opportunities(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r, catalog.Opportunities)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Opportunities(r.Context(), middleware.GetActor(r.Context()), opts)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
