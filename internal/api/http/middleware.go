package http

import (
	"net/http"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/security"
)

// authenticate verifies the bearer token and makes sure the caller has a
// profile before any handler runs.
func (h *handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := security.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeUnauthenticated(w, "authorization token is not provided")
			return
		}
		id, err := h.Verifier.Verify(r.Context(), token)
		if err != nil {
			logger.Debug("Rejected bearer token", "path", r.URL.Path, "error", err)
			writeUnauthenticated(w, "your session has expired, please sign in again")
			return
		}

		ctx := r.Context()
		if _, err := h.Users.GetUser(ctx, id.UserID); err != nil {
			if domain.KindOf(err) != domain.KindNotFound {
				writeError(w, err)
				return
			}
			if _, err := h.Users.RegisterProfile(ctx, id.UserID, id.DisplayName, id.Email); err != nil {
				writeError(w, err)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(security.WithIdentity(ctx, id)))
	})
}

func callerID(r *http.Request) string {
	id, _ := security.IdentityFromContext(r.Context())
	return id.UserID
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("HTTP handler panicked", "method", r.Method, "path", r.URL.Path, "panic", p)
				writeError(w, domain.Dependency(nil, "something went wrong, please try again"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
