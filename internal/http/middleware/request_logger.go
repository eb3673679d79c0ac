package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glowsalon/loyalty-platform/internal/authctx"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// RequestLogger emits structured logs for every HTTP request. When the
// session middleware already resolved an actor, its id and role are
// attached to the completion log.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if actor, ok := authctx.ActorFromContext(r.Context()); ok {
				fields = append(fields, "actor_id", actor.ID, "rol", actor.Role)
			}
			logger.Info("request completed", fields...)
		})
	}
}
