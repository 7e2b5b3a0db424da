package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/plexo/gateway/internal/auth"
	"github.com/plexo/gateway/internal/metrics"
	"github.com/plexo/gateway/internal/model"
)

// DefaultMinAuthDuration is the floor on time spent authenticating, so
// failures and successes are indistinguishable by latency.
const DefaultMinAuthDuration = 200 * time.Millisecond

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger    *slog.Logger
	Validator auth.CredentialValidator
	Metrics   metrics.Recorder
	// MinDuration pads every authentication to at least this long. Zero disables padding.
	MinDuration time.Duration
}

// Auth returns a middleware that authenticates API requests.
// It extracts the API key from the Authorization header,
// resolves it to a member, and injects the identity into the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			var (
				identity model.Identity
				err      error
			)
			if key := extractAPIKey(r); key == "" {
				err = auth.ErrMissingKey
			} else {
				identity, err = cfg.Validator.Validate(r.Context(), key)
			}

			if elapsed := time.Since(startTime); elapsed < cfg.MinDuration {
				pad := time.NewTimer(cfg.MinDuration - elapsed)
				select {
				case <-pad.C:
				case <-r.Context().Done():
					pad.Stop()
				}
			}

			if err != nil {
				reason := auth.FailureReason(err)
				cfg.Metrics.IncAuthFailure(reason)

				attrs := []any{
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				}
				if reason == "lookup_failed" {
					cfg.Logger.Error("authentication failed", append(attrs, slog.String("error", err.Error()))...)
				} else {
					cfg.Logger.Warn("authentication failed", attrs...)
				}

				writeAuthError(w)
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("key_id", identity.KeyID),
				slog.String("key_prefix", identity.KeyPrefix),
				slog.String("member_id", identity.MemberID.String()),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			AddLogAttrs(r.Context(), slog.String("member_id", identity.MemberID.String()))

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAPIKey extracts the API key from the request.
// Supports both "Authorization: Bearer <key>" and "X-API-Key: <key>" headers.
func extractAPIKey(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
}
