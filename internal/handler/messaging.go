package handler

import (
	"net/http"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

// MessagingHandler handles conversations, intro requests and badges.
type MessagingHandler struct {
	service *service.MessagingService
	logger  *logger.Logger
}

// NewMessagingHandler creates a new messaging handler.
func NewMessagingHandler(svc *service.MessagingService, log *logger.Logger) *MessagingHandler {
	return &MessagingHandler{
		service: svc,
		logger:  log,
	}
}

// Conversations handles GET /api/v1/conversations
func (h *MessagingHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r, catalog.Conversations)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.Conversations(r.Context(), middleware.GetActor(r.Context()), opts)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Messages handles GET /api/v1/conversations/{id}/messages
func (h *MessagingHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := h.service.Messages(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Send handles POST /api/v1/conversations/{id}/messages
func (h *MessagingHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if !decode(w, r, &req) {
		return
	}
	if err := middleware.ValidateMessageText(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.Send(r.Context(), middleware.GetActor(r.Context()), id, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Read handles POST /api/v1/conversations/{id}/read
func (h *MessagingHandler) Read(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	conv, err := h.service.MarkRead(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// React handles POST /api/v1/conversations/{id}/messages/{messageID}/reactions
func (h *MessagingHandler) React(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	messageID, ok := pathID(w, r, "messageID")
	if !ok {
		return
	}

	var req model.ToggleReactionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := middleware.ValidateEmoji(req.Emoji); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.ToggleReaction(r.Context(), middleware.GetActor(r.Context()), id, messageID, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Typing handles GET /api/v1/conversations/{id}/typing
func (h *MessagingHandler) Typing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	typing, err := h.service.Typing(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"typing": typing})
}

// Intros handles GET /api/v1/intros
func (h *MessagingHandler) Intros(w http.ResponseWriter, r *http.Request) {
	f, err := workflowFilter(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	recs, err := h.service.Intros(r.Context(), middleware.GetActor(r.Context()), f)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"intros": recs})
}

// AcceptIntro handles POST /api/v1/intros/{id}/accept
func (h *MessagingHandler) AcceptIntro(w http.ResponseWriter, r *http.Request) {
	runDecision[model.ConnectionRequest](w, r, h.logger, h.service.AcceptIntro)
}

// DeclineIntro handles POST /api/v1/intros/{id}/decline
func (h *MessagingHandler) DeclineIntro(w http.ResponseWriter, r *http.Request) {
	runDecision[model.ConnectionRequest](w, r, h.logger, h.service.DeclineIntro)
}

// Badges handles GET /api/v1/badges
func (h *MessagingHandler) Badges(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Badges(r.Context(), middleware.GetActor(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
