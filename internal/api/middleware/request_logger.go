package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// quietPaths are polled by orchestrators and scrapers; they log at debug.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger attaches a request-scoped logger carrying the chi request
// id to the context and logs one line per request. Server errors log at
// warn. Live feed connections log when they close.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			var ev *zerolog.Event
			switch {
			case ww.status >= http.StatusInternalServerError:
				ev = reqLogger.Warn()
			case quietPaths[r.URL.Path]:
				ev = reqLogger.Debug()
			default:
				ev = reqLogger.Info()
			}

			msg := "request"
			if isUpgrade(r) {
				msg = "live feed closed"
			}

			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg(msg)
		})
	}
}
