package middleware

import (
	"net/http"
	"time"

	"github.com/navigate/sensorhubd/internal/logging"
)

// Logging creates a request-logging middleware, completing the chain
// server.go's buildHandler wires in (recovery -> logging -> cors).
func Logging(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
		})
	}
}
