package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"workforce/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.RoleID, permission)
			if err != nil {
				slog.Error("permission check failed", "permission", permission, "requestId", GetRequestID(r.Context()), "err", err)
				api.Fail(w, http.StatusInternalServerError, "Permission check failed", nil)
				return
			}
			if !allowed {
				api.Fail(w, http.StatusForbidden, "Insufficient permissions", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
