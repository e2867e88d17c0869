package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "semecity/internal/delivery/http/helpers"
	"semecity/internal/domain"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients. API clients use the Authorization header instead.
const SessionCookieName = "semecity_session"

type contextKey string

const viewerKey contextKey = "viewer"

// SetViewer returns a context with the viewer set. Used by auth middleware.
func SetViewer(ctx context.Context, v domain.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFromContext returns the authenticated viewer from the context, if present.
func ViewerFromContext(ctx context.Context) (domain.Viewer, bool) {
	v, ok := ctx.Value(viewerKey).(domain.Viewer)
	return v, ok
}

// tokenFromRequest extracts the session token from the Authorization header
// (Bearer scheme) or, failing that, from the session cookie.
func tokenFromRequest(r *http.Request) string {
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth returns a wrapper that validates the session token and sets the
// viewer in the request context. If the token is missing or invalid, it
// responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing session token")
				return
			}
			viewer, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetViewer(r.Context(), viewer))
			next(w, r)
		}
	}
}

// RequireRole returns a wrapper that responds with 403 unless the viewer's
// role is one of the given roles. It must run after RequireAuth.
func RequireRole(roles ...domain.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := ViewerFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
				return
			}
			for _, role := range roles {
				if viewer.Role == role {
					next(w, r)
					return
				}
			}
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
		}
	}
}

// RequireAdmin is RequireRole(RoleAdmin).
func RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
