package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

// PrincipalKey ключ контекста для аутентифицированного пользователя
const PrincipalKey ContextKey = "principal"

// TokenValidator проверяет JWT токен
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeUnauthorized(w, "invalid authorization header format")
				return
			}

			// Валидируем токен
			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			// Добавляем пользователя в контекст
			ctx := WithPrincipal(r.Context(), claims.Principal())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}

// WithPrincipal кладет пользователя в контекст
func WithPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// GetPrincipalFromContext извлекает пользователя из контекста
func GetPrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(domain.Principal)
	return principal, ok
}
