package middleware

import (
	"context"
	"net/http"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

const principalKey contextKey = "principal"

// PrincipalResolver turns a tenant API key into a Principal. Implemented by
// the tenants service.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, apiKey string) (*model.Principal, error)
}

// TenantAuth authenticates every request via the X-API-Key header and stores
// the resolved Principal on the request context. Requests without a valid key
// are rejected before reaching any handler.
func TenantAuth(resolver PrincipalResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				apiKey = r.URL.Query().Get("api_key")
			}

			if apiKey == "" {
				rejectUnauthenticated(w, log, r, "missing API key")
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), apiKey)
			if err != nil {
				rejectUnauthenticated(w, log, r, "invalid API key")
				return
			}

			if userID := r.Header.Get("X-User-ID"); userID != "" {
				principal.UserID = userID
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the authenticated Principal stored by TenantAuth.
func PrincipalFrom(ctx context.Context) (*model.Principal, error) {
	principal, ok := ctx.Value(principalKey).(*model.Principal)
	if !ok || principal == nil {
		return nil, apperrors.Unauthorized("no authenticated tenant on request")
	}
	return principal, nil
}

func rejectUnauthenticated(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Request rejected",
		"request_id", requestID,
		"reason", reason,
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
}
