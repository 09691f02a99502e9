package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
)

type tenantCtxKey struct{}

// HeaderTenantID заголовок, через который шлюз передает тенанта запроса
const HeaderTenantID = "X-Tenant-ID"

// Auth проверяет наличие корректного X-Tenant-ID и кладет его в контекст
// Аутентификацию выполняет шлюз, сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderTenantID)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-Tenant-ID")
			return
		}

		tenantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-Tenant-ID")
			return
		}

		ctx := context.WithValue(r.Context(), tenantCtxKey{}, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TenantFromContext извлекает ID тенанта, положенный Auth middleware
func TenantFromContext(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantCtxKey{}).(int64)
	return tenantID, ok
}
