package server

import (
	"context"
	"net/http"
	"time"

	"github.com/aidarkhanov/nanoid"
	"github.com/rs/zerolog"
)

type logPtr struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logMiddleware gives every request a logger tagged with a request ID and
// logs the request once it is served.
func logMiddleware(base *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			logger := base.With().Str("req", nanoid.New()).Logger()
			r = r.WithContext(context.WithValue(r.Context(), logPtr{}, &logger))

			started := time.Now()
			rec := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("took", time.Since(started)).
				Msg("request")
		})
	}
}

// Log returns the request logger, or a disabled one outside of a request.
func Log(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(logPtr{}).(*zerolog.Logger); ok {
		return logger
	}
	return zerolog.Ctx(ctx)
}
