package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

type HTTPRequestLogger struct {
	logger        *logrus.Logger
	debug         bool
	errorHTTPCode int
}

// NewHTTPRequestLogger logs every request when debug is enabled, otherwise
// only those whose response status is at or above errorHTTPCode.
func NewHTTPRequestLogger(logger *logrus.Logger, debug bool, errorHTTPCode int) *HTTPRequestLogger {
	return &HTTPRequestLogger{
		logger:        logger,
		debug:         debug,
		errorHTTPCode: errorHTTPCode,
	}
}

func (l *HTTPRequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		if !l.debug && rec.statusCode < l.errorHTTPCode {
			return
		}

		l.logger.WithContext(r.Context()).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.statusCode,
			"duration": time.Since(start).String(),
		}).Info()
	})
}
