package handler

import (
	"net/http"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

// NetworkHandler handles connections, suggestions and connection requests.
type NetworkHandler struct {
	service *service.NetworkService
	logger  *logger.Logger
}

// NewNetworkHandler creates a new network handler.
func NewNetworkHandler(svc *service.NetworkService, log *logger.Logger) *NetworkHandler {
	return &NetworkHandler{
		service: svc,
		logger:  log,
	}
}

// Connections handles GET /api/v1/network/connections
func (h *NetworkHandler) Connections(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r, catalog.Connections)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.Connections(r.Context(), middleware.GetActor(r.Context()), opts)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggestions handles GET /api/v1/network/suggestions
func (h *NetworkHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r, catalog.Suggestions)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if opts.Query.Sort == "" {
		opts.Query = opts.Query.Sorted("match", true)
	}
	resp, err := h.service.Suggestions(r.Context(), middleware.GetActor(r.Context()), opts)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Connect handles POST /api/v1/network/suggestions/{id}/connect
func (h *NetworkHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.ConnectRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	if err := middleware.ValidateMessageText(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.service.Connect(r.Context(), middleware.GetActor(r.Context()), id, req.Message)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Requests handles GET /api/v1/network/requests
func (h *NetworkHandler) Requests(w http.ResponseWriter, r *http.Request) {
	f, err := workflowFilter(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	recs, err := h.service.Requests(r.Context(), middleware.GetActor(r.Context()), f)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": recs})
}

// Accept handles POST /api/v1/network/requests/{id}/accept
func (h *NetworkHandler) Accept(w http.ResponseWriter, r *http.Request) {
	runDecision[model.ConnectionRequest](w, r, h.logger, h.service.AcceptRequest)
}

// Decline handles POST /api/v1/network/requests/{id}/decline
func (h *NetworkHandler) Decline(w http.ResponseWriter, r *http.Request) {
	runDecision[model.ConnectionRequest](w, r, h.logger, h.service.DeclineRequest)
}
