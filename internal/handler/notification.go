package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/service"
)

// NotificationHandler обрабатывает inbox адъюстера и решения по уведомлениям
type NotificationHandler struct {
	decisionService *service.DecisionService
}

// NewNotificationHandler создает новый NotificationHandler
func NewNotificationHandler(decisionService *service.DecisionService) *NotificationHandler {
	return &NotificationHandler{
		decisionService: decisionService,
	}
}

// DecisionRequest представляет запрос с решением по уведомлению
type DecisionRequest struct {
	Outcome domain.Outcome `json:"outcome"`
}

// Inbox обрабатывает GET /notifications
func (h *NotificationHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	inbox, err := h.decisionService.Inbox(r.Context(), principal)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if inbox == nil {
		inbox = []*domain.Notification{}
	}

	RespondWithJSON(w, r, http.StatusOK, NotificationsResponse{Notifications: inbox})
}

// Decide обрабатывает POST /notifications/{notificationID}/decision
func (h *NotificationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	claim, err := h.decisionService.Decide(r.Context(), principal, chi.URLParam(r, "notificationID"), req.Outcome)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ClaimResponse{Claim: claim})
}
