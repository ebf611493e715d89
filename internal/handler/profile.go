package handler

import (
	"net/http"

	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

// ProfileHandler handles the acting user's own profile.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(svc *service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: svc,
		logger:  log,
	}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Get(r.Context(), middleware.GetActor(r.Context()))
	h.respond(w, r, v, err)
}

// Edit handles POST /api/v1/profile/edit
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Edit(r.Context(), middleware.GetActor(r.Context()))
	h.respond(w, r, v, err)
}

// Patch handles PATCH /api/v1/profile/draft
func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req model.ProfilePatch
	if !decode(w, r, &req) {
		return
	}
	for _, v := range req.Fields {
		if err := middleware.ValidateFieldValue(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for _, tags := range [][]string{req.AddSkills, req.RemoveSkills, req.AddInterests, req.RemoveInterests} {
		for _, v := range tags {
			if err := middleware.ValidateFieldValue(v); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	}

	v, err := h.service.Patch(r.Context(), middleware.GetActor(r.Context()), &req)
	h.respond(w, r, v, err)
}

// Save handles POST /api/v1/profile/save
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Save(r.Context(), middleware.GetActor(r.Context()))
	h.respond(w, r, v, err)
}

// Cancel handles POST /api/v1/profile/cancel
func (h *ProfileHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Cancel(r.Context(), middleware.GetActor(r.Context()))
	h.respond(w, r, v, err)
}

func (h *ProfileHandler) respond(w http.ResponseWriter, r *http.Request, v *model.ProfileView, err error) {
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
