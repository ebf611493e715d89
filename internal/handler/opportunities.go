package handler

import (
	"net/http"

	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

// OpportunityHandler handles proposals and applications.
type OpportunityHandler struct {
	service *service.OpportunityService
	logger  *logger.Logger
}

// NewOpportunityHandler creates a new opportunity handler.
func NewOpportunityHandler(svc *service.OpportunityService, log *logger.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		service: svc,
		logger:  log,
	}
}

// Proposals handles GET /api/v1/proposals
func (h *OpportunityHandler) Proposals(w http.ResponseWriter, r *http.Request) {
	f, err := workflowFilter(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	recs, err := h.service.Proposals(r.Context(), middleware.GetActor(r.Context()), f)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"proposals": recs})
}

// AcceptProposal handles POST /api/v1/proposals/{id}/accept
func (h *OpportunityHandler) AcceptProposal(w http.ResponseWriter, r *http.Request) {
	runDecision[model.Proposal](w, r, h.logger, h.service.AcceptProposal)
}

// DeclineProposal handles POST /api/v1/proposals/{id}/decline
func (h *OpportunityHandler) DeclineProposal(w http.ResponseWriter, r *http.Request) {
	runDecision[model.Proposal](w, r, h.logger, h.service.DeclineProposal)
}

// Applications handles GET /api/v1/applications
func (h *OpportunityHandler) Applications(w http.ResponseWriter, r *http.Request) {
	f, err := workflowFilter(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	recs, err := h.service.Applications(r.Context(), middleware.GetActor(r.Context()), f)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"applications": recs})
}

// Apply handles POST /api/v1/opportunities/{id}/apply
func (h *OpportunityHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.ApplyRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	if err := middleware.ValidateMessageText(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.service.Apply(r.Context(), middleware.GetActor(r.Context()), id, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
