// Package gateway is a validating façade in front of the business API. It
// checks identity headers and request bodies, rate-limits callers, and
// forwards everything else verbatim.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"shareit/internal/api"
	"shareit/internal/apperr"
	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Gateway struct {
	cfg     config.GatewayConfig
	client  *http.Client
	limiter domain.RateLimiter
	retry   worker.RetryPolicy
	server  *http.Server
	log     zerolog.Logger
}

func New(cfg config.GatewayConfig, limiter domain.RateLimiter, logger *zerolog.Logger) *Gateway {
	g := &Gateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		retry: worker.RetryPolicy{
			MaxRetries:   cfg.Retry.MaxRetries,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
		},
		log: logger.With().Str("component", "gateway").Logger(),
	}

	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           g.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return g
}

// Handler mirrors every server route. Bodies are validated before the
// request leaves the gateway; everything else forwards as-is.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", validated(g, false, validateUserCreate))
	mux.HandleFunc("PATCH /users/{id}", validated(g, false, validateUserPatch))
	mux.HandleFunc("GET /users/{id}", g.forwardHandler(false))
	mux.HandleFunc("GET /users", g.forwardHandler(false))
	mux.HandleFunc("DELETE /users/{id}", g.forwardHandler(false))

	mux.HandleFunc("POST /items", validated(g, true, validateItemCreate))
	mux.HandleFunc("PATCH /items/{id}", g.forwardHandler(true))
	mux.HandleFunc("GET /items/{id}", g.forwardHandler(true))
	mux.HandleFunc("GET /items", g.forwardHandler(true))
	mux.HandleFunc("GET /items/search", g.forwardHandler(true))
	mux.HandleFunc("POST /items/{id}/comment", validated(g, true, validateCommentCreate))
	mux.HandleFunc("GET /items/{id}/comment", g.forwardHandler(false))

	mux.HandleFunc("POST /bookings", validated(g, true, func(create models.BookingCreate) []string {
		return validateBookingCreate(create, time.Now())
	}))
	mux.HandleFunc("PATCH /bookings/{id}", g.forwardHandler(true))
	mux.HandleFunc("GET /bookings/{id}", g.forwardHandler(true))
	mux.HandleFunc("GET /bookings", g.forwardHandler(true))
	mux.HandleFunc("GET /bookings/owner", g.forwardHandler(true))
	mux.HandleFunc("GET /bookings/owner/export", g.forwardHandler(true))

	mux.HandleFunc("POST /requests", validated(g, true, validateRequestCreate))
	mux.HandleFunc("GET /requests", g.forwardHandler(true))
	mux.HandleFunc("GET /requests/all", g.forwardHandler(true))
	mux.HandleFunc("GET /requests/{id}", g.forwardHandler(true))

	return mux
}

func (g *Gateway) Start() error {
	g.log.Info().Str("addr", g.server.Addr).Str("upstream", g.cfg.ServerURL).Msg("Gateway listening")
	if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

// validated decodes the body into the DTO, runs the field validators, and
// forwards the original bytes on success.
func validated[T any](g *Gateway, needIdentity bool, validate func(T) []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.admit(w, r, needIdentity) {
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, apperr.BadRequestf("failed to read body"))
			return
		}

		var dto T
		if err := json.Unmarshal(body, &dto); err != nil {
			writeError(w, apperr.BadRequestf("invalid JSON body"))
			return
		}
		if errs := validate(dto); len(errs) > 0 {
			writeValidationErrors(w, errs)
			return
		}

		g.forward(w, r, body)
	}
}

func (g *Gateway) forwardHandler(needIdentity bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.admit(w, r, needIdentity) {
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, apperr.BadRequestf("failed to read body"))
			return
		}
		g.forward(w, r, body)
	}
}

// admit enforces the identity header and the per-caller rate limit.
func (g *Gateway) admit(w http.ResponseWriter, r *http.Request, needIdentity bool) bool {
	if needIdentity {
		if _, err := callerIDHeader(r); err != nil {
			writeError(w, err)
			return false
		}
	}

	allowed, err := g.limiter.Allow(r.Context(), rateLimitKey(r))
	if err != nil {
		g.log.Error().Err(err).Msg("rate limiter error")
		// Fail open: limiter trouble should not take the API down.
		return true
	}
	if !allowed {
		writeJSON(w, http.StatusTooManyRequests, api.ErrorResponse{
			Error:     "Too many requests",
			Timestamp: time.Now(),
			Status:    http.StatusTooManyRequests,
		})
		return false
	}
	return true
}

// forward relays the request upstream, retrying idempotent methods with
// backoff, and streams back status, headers and body verbatim.
func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, body []byte) {
	upstreamURL := g.cfg.ServerURL + r.URL.RequestURI()
	requestID := uuid.NewString()

	attempts := 1
	if retryable(r.Method) {
		attempts += g.retry.MaxRetries
	}

	var resp *http.Response
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := http.NewRequestWithContext(r.Context(), r.Method, upstreamURL, bytes.NewReader(body))
		if err != nil {
			writeError(w, fmt.Errorf("failed to build upstream request: %w", err))
			return
		}
		req.Header = r.Header.Clone()
		req.Header.Set("X-Request-Id", requestID)

		resp, lastErr = g.client.Do(req)
		if lastErr == nil {
			break
		}

		if attempt < attempts {
			delay := g.retry.NextDelay(attempt)
			g.log.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("upstream call failed, retrying")
			select {
			case <-r.Context().Done():
				lastErr = r.Context().Err()
				attempt = attempts
			case <-time.After(delay):
			}
		}
	}
	if lastErr != nil {
		g.log.Error().Err(lastErr).Str("url", upstreamURL).Msg("upstream unreachable")
		writeJSON(w, http.StatusBadGateway, api.ErrorResponse{
			Error:     "Server error: upstream unavailable",
			Timestamp: time.Now(),
			Status:    http.StatusBadGateway,
		})
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func retryable(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func callerIDHeader(r *http.Request) (string, error) {
	raw := r.Header.Get(api.IdentityHeader)
	if raw == "" {
		return "", apperr.BadRequestf("%s header is required", api.IdentityHeader)
	}
	return raw, nil
}

// rateLimitKey prefers the caller's user id, falling back to the remote host
// for anonymous routes.
func rateLimitKey(r *http.Request) string {
	if id := r.Header.Get(api.IdentityHeader); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	prefix := "Server error: "
	if apperr.KindOf(err) == apperr.KindBadRequest {
		status = http.StatusBadRequest
		prefix = "Bad request: "
	}
	writeJSON(w, status, api.ErrorResponse{
		Error:     prefix + err.Error(),
		Timestamp: time.Now(),
		Status:    status,
	})
}

func writeValidationErrors(w http.ResponseWriter, messages []string) {
	writeJSON(w, http.StatusBadRequest, api.ErrorResponse{
		Errors:    messages,
		Timestamp: time.Now(),
		Status:    http.StatusBadRequest,
	})
}
