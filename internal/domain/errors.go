package domain

import "errors"

// Доменные ошибки
var (
	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrClaimNotFound возвращается когда claim не найден
	ErrClaimNotFound = errors.New("claim not found")

	// ErrNotificationNotFound возвращается когда уведомление не найдено
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrMemberNotFound возвращается когда участник команды не найден
	ErrMemberNotFound = errors.New("team member not found")

	// ErrInvalidState возвращается при операции над claim'ом в терминальном статусе
	ErrInvalidState = errors.New("claim is in a terminal state")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyDecided возвращается при повторном решении по уведомлению
	ErrAlreadyDecided = errors.New("notification already decided")

	// ErrConflict возвращается при конкуренции за claim, операцию можно сразу повторить
	ErrConflict = errors.New("concurrent modification, retry")

	// ErrForbidden возвращается когда у вызывающего нет прав на операцию
	ErrForbidden = errors.New("forbidden")

	// ErrNotInRoster возвращается когда участник не входит в ростер администратора
	ErrNotInRoster = errors.New("team member does not belong to admin roster")

	// ErrMemberInactive возвращается при назначении неактивного участника
	ErrMemberInactive = errors.New("team member is inactive")

	// ErrInvalidOutcome возвращается при неизвестном решении
	ErrInvalidOutcome = errors.New("outcome must be approve or decline")

	// ErrInvalidStatus возвращается при неизвестном или запрещенном целевом статусе
	ErrInvalidStatus = errors.New("invalid target status")

	// ErrValidation возвращается при некорректных входных данных
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeNotFound          ErrorCode = "NOT_FOUND"          // Ресурс не найден
	CodeInvalidState      ErrorCode = "INVALID_STATE"      // Claim в терминальном статусе
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION" // Переход недостижим
	CodeAlreadyDecided    ErrorCode = "ALREADY_DECIDED"    // Решение уже принято
	CodeConflict          ErrorCode = "CONFLICT"           // Конкурентное изменение
	CodeForbidden         ErrorCode = "FORBIDDEN"          // Нет прав
	CodeMemberInactive    ErrorCode = "MEMBER_INACTIVE"    // Участник неактивен
	CodeBadRequest        ErrorCode = "BAD_REQUEST"        // Некорректный запрос
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"       // Не аутентифицирован
	CodeInternal          ErrorCode = "INTERNAL_ERROR"     // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrClaimNotFound),
		errors.Is(err, ErrNotificationNotFound), errors.Is(err, ErrMemberNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrAlreadyDecided):
		return CodeAlreadyDecided
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotInRoster):
		return CodeForbidden
	case errors.Is(err, ErrMemberInactive):
		return CodeMemberInactive
	case errors.Is(err, ErrInvalidOutcome), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrValidation):
		return CodeBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}
