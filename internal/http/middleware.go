package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/jwtauth"

	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxKeyUserID ctxKey = "user_id"
	ctxKeyRole   ctxKey = "role"
)

// userIDFromContext извлекает идентичность, положенную authMiddleware.
func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(uuid.UUID)
	return id, ok
}

func roleFromContext(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(ctxKeyRole).(domain.Role)
	return role, ok
}

// authMiddleware проверяет Bearer-токен и кладёт идентичность в контекст.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(w, s.log, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := jwtauth.ParseToken(token, s.secret)
		if err != nil {
			respondError(w, s.log, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxKeyRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole пропускает только пользователей с указанной ролью (admin проходит всегда).
func (s *Server) requireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := roleFromContext(r.Context())
			if !ok {
				respondError(w, s.log, http.StatusUnauthorized, "missing identity")
				return
			}
			if got != role && got != domain.RoleAdmin {
				respondError(w, s.log, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// logMiddleware пишет structured-лог по каждому запросу.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Info("request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
