package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/plexo/gateway/internal/auth"
	"github.com/plexo/gateway/internal/cache"
	"github.com/plexo/gateway/internal/metrics"
	"github.com/plexo/gateway/internal/model"
)

type stubLimiter struct {
	result *cache.RateLimitResult
	err    error
	keyIDs []string
}

func (s *stubLimiter) Allow(_ context.Context, keyID string, _, _ int) (*cache.RateLimitResult, error) {
	s.keyIDs = append(s.keyIDs, keyID)
	return s.result, s.err
}

func authenticated(r *http.Request) *http.Request {
	id := model.Identity{MemberID: uuid.New(), KeyID: "01KEY", KeyPrefix: "abc123"}
	return r.WithContext(auth.ContextWithIdentity(r.Context(), id))
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		limiter    *stubLimiter
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "allowed",
			enabled:    true,
			limiter:    &stubLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 9, ResetAt: time.Now()}},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "limited",
			enabled:    true,
			limiter:    &stubLimiter{result: &cache.RateLimitResult{Allowed: false, RetryAfter: 3 * time.Second, ResetAt: time.Now()}},
			wantStatus: http.StatusTooManyRequests,
			wantCalls:  1,
		},
		{
			name:       "limiter error fails open",
			enabled:    true,
			limiter:    &stubLimiter{result: &cache.RateLimitResult{Allowed: true}, err: errors.New("redis down")},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "disabled",
			enabled:    false,
			limiter:    &stubLimiter{},
			wantStatus: http.StatusOK,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := metrics.NewInMemory()
			handler := RateLimit(RateLimitConfig{
				Logger:            discardLogger(),
				Limiter:           tt.limiter,
				Metrics:           rec,
				Enabled:           tt.enabled,
				RequestsPerMinute: 600,
				Burst:             10,
			})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, authenticated(httptest.NewRequest(http.MethodGet, "/tasks", nil)))

			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Len(t, tt.limiter.keyIDs, tt.wantCalls)

			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "3", resp.Header().Get("Retry-After"))
				assert.Contains(t, resp.Body.String(), `"code":"RATE_LIMITED"`)
				assert.Equal(t, uint64(1), rec.Snapshot().RateLimited)
			}
		})
	}
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 7, ResetAt: time.Unix(1700000000, 0)}}
	handler := RateLimit(RateLimitConfig{
		Logger:            discardLogger(),
		Limiter:           limiter,
		Enabled:           true,
		RequestsPerMinute: 120,
		Burst:             10,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticated(httptest.NewRequest(http.MethodGet, "/tasks", nil)))

	assert.Equal(t, "120", resp.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "7", resp.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1700000000", resp.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, []string{"01KEY"}, limiter.keyIDs)
}

func TestRateLimit_SkipsAnonymous(t *testing.T) {
	limiter := &stubLimiter{}
	handler := RateLimit(RateLimitConfig{
		Logger:  discardLogger(),
		Limiter: limiter,
		Enabled: true,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Empty(t, limiter.keyIDs)
}
