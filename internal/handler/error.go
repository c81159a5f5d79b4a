package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/claims-engine/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// statusByCode сопоставляет коды ошибок с HTTP статусами
var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:          http.StatusNotFound,
	domain.CodeInvalidState:      http.StatusConflict,
	domain.CodeInvalidTransition: http.StatusConflict,
	domain.CodeAlreadyDecided:    http.StatusConflict,
	domain.CodeConflict:          http.StatusConflict,
	domain.CodeForbidden:         http.StatusForbidden,
	domain.CodeMemberInactive:    http.StatusConflict,
	domain.CodeBadRequest:        http.StatusBadRequest,
	domain.CodeUnauthorized:      http.StatusUnauthorized,
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.MapErrorToCode(err)

	status, ok := statusByCode[code]
	if !ok {
		// Детали внутренних ошибок наружу не отдаем
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternal), "internal server error")
		return
	}

	RespondWithError(w, r, status, string(code), err.Error())
}

// badRequest отправляет 400 с кодом BAD_REQUEST
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), message)
}
