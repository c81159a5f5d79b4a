package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/middleware"
)

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// requirePrincipal достает пользователя из контекста или отвечает 401
func requirePrincipal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		HandleError(w, r, domain.ErrUnauthorized)
	}
	return principal, ok
}
