package server

import (
	"context"
	"net/http"
	"time"

	"claimdesk/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyCaller contextKey = "caller"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireSession resolves the caller from the session cookie issued by the
// auth gateway and loads their current admin flag from the directory. The
// engine never trusts isAdmin from the cookie itself.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.config.CookieName)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}

		var employeeID string
		if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &employeeID); err != nil {
			s.logger.WithError(err).Debug("failed to decode session cookie")
			s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}

		employee, err := s.employees.Employee(r.Context(), employeeID)
		if err != nil {
			s.logger.WithError(err).WithField("employee_id", employeeID).Warn("session employee not found")
			s.respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyCaller, employee.Caller())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) callerFromContext(ctx context.Context) (types.Caller, bool) {
	caller, ok := ctx.Value(contextKeyCaller).(types.Caller)
	return caller, ok
}
