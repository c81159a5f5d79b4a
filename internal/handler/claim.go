package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/service"
)

// ClaimHandler обрабатывает эндпоинты claim'ов
type ClaimHandler struct {
	claimService      *service.ClaimService
	assignmentService *service.AssignmentService
	projector         *service.ProgressProjector
}

// NewClaimHandler создает новый ClaimHandler
func NewClaimHandler(
	claimService *service.ClaimService,
	assignmentService *service.AssignmentService,
	projector *service.ProgressProjector,
) *ClaimHandler {
	return &ClaimHandler{
		claimService:      claimService,
		assignmentService: assignmentService,
		projector:         projector,
	}
}

// ClaimResponse представляет ответ с claim'ом
type ClaimResponse struct {
	Claim *domain.Claim `json:"claim"`
}

// ClaimsResponse представляет ответ со списком claim'ов
type ClaimsResponse struct {
	Claims []*domain.Claim `json:"claims"`
}

// AssignRequest представляет запрос на назначение claim'а
type AssignRequest struct {
	MemberID string `json:"member_id"`
}

// AssignResponse представляет ответ на назначение claim'а
type AssignResponse struct {
	Notification *domain.Notification `json:"notification"`
}

// UpdateStatusRequest представляет запрос на смену статуса claim'а
type UpdateStatusRequest struct {
	Status domain.ClaimStatus `json:"status"`
}

// NotificationsResponse представляет ответ со списком уведомлений
type NotificationsResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
}

// Create обрабатывает POST /claims (публичная форма подачи)
func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	var intake domain.ClaimIntake
	if err := json.NewDecoder(r.Body).Decode(&intake); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	claim, err := h.claimService.Create(r.Context(), intake)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, ClaimResponse{Claim: claim})
}

// List обрабатывает GET /claims
func (h *ClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	claims, err := h.claimService.List(r.Context(), principal)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if claims == nil {
		claims = []*domain.Claim{}
	}

	RespondWithJSON(w, r, http.StatusOK, ClaimsResponse{Claims: claims})
}

// Get обрабатывает GET /claims/{claimID}
func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	claim, err := h.claimService.GetByID(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ClaimResponse{Claim: claim})
}

// Assign обрабатывает POST /claims/{claimID}/assign
func (h *ClaimHandler) Assign(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.MemberID == "" {
		badRequest(w, r, "member_id is required")
		return
	}

	n, err := h.assignmentService.Assign(r.Context(), principal, chi.URLParam(r, "claimID"), req.MemberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, AssignResponse{Notification: n})
}

// Reject обрабатывает POST /claims/{claimID}/reject
func (h *ClaimHandler) Reject(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	claim, err := h.claimService.Reject(r.Context(), principal, chi.URLParam(r, "claimID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ClaimResponse{Claim: claim})
}

// UpdateStatus обрабатывает POST /claims/{claimID}/status
func (h *ClaimHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	claim, err := h.claimService.UpdateStatus(r.Context(), principal, chi.URLParam(r, "claimID"), req.Status)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ClaimResponse{Claim: claim})
}

// Notifications обрабатывает GET /claims/{claimID}/notifications
func (h *ClaimHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	history, err := h.assignmentService.History(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if history == nil {
		history = []*domain.Notification{}
	}

	RespondWithJSON(w, r, http.StatusOK, NotificationsResponse{Notifications: history})
}

// Timeline обрабатывает GET /claims/{claimID}/timeline
func (h *ClaimHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	timeline, err := h.projector.Project(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, timeline)
}
