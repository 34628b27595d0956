package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/metrics"

	"github.com/rs/zerolog"
)

// IdentityHeader carries the caller's user id. It is not a verified token;
// any client can claim any id.
const IdentityHeader = "X-Sharer-User-Id"

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		event := logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start))
		if requestID := r.Header.Get(requestIDHeader); requestID != "" {
			event = event.Str("request_id", requestID)
		}
		event.Msg("http request")

		metrics.IncHTTP(r.Method+" "+r.URL.Path, recorder.status)
	})
}

// callerID parses the identity header. Routes that need identity treat its
// absence as a bad request.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(IdentityHeader)
	if raw == "" {
		return 0, apperr.BadRequestf("%s header is required", IdentityHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequestf("%s header must be an integer", IdentityHeader)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, apperr.BadRequestf("invalid %s", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.BadRequestf("%s must be an integer", name)
	}
	return value, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequestf("invalid JSON body")
	}
	return nil
}
