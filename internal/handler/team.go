package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/service"
)

// TeamHandler обрабатывает эндпоинты ростера
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// AddMemberResponse представляет ответ на добавление участника
type AddMemberResponse struct {
	Member *domain.TeamMember `json:"member"`
}

// AddMember обрабатывает POST /team/members
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var member domain.TeamMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	created, err := h.teamService.AddMember(r.Context(), principal, &member)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, AddMemberResponse{Member: created})
}

// GetTeam обрабатывает GET /team
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), principal)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}
