package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/plexo/gateway/internal/auth"
	"github.com/plexo/gateway/internal/model"
	"github.com/plexo/gateway/internal/repository"
)

// KeyManager is the key directory used for self-service key management.
type KeyManager interface {
	auth.KeyWriter
	GetAPIKeyByID(ctx context.Context, id string) (*model.APIKey, error)
	ListAPIKeysByMember(ctx context.Context, memberID uuid.UUID) ([]*model.APIKey, error)
	RevokeAPIKey(ctx context.Context, id string) error
}

// APIKeyHandler lets a member manage their own API keys.
type APIKeyHandler struct {
	logger   *slog.Logger
	keys     KeyManager
	env      string
	validate *validator.Validate
}

// NewAPIKeyHandler creates a new APIKeyHandler. New keys are issued for env
// ("live" or "test").
func NewAPIKeyHandler(logger *slog.Logger, keys KeyManager, env string) *APIKeyHandler {
	return &APIKeyHandler{
		logger:   logger,
		keys:     keys,
		env:      env,
		validate: validator.New(),
	}
}

// APIKeyCreateRequest is the body of POST /api-keys.
type APIKeyCreateRequest struct {
	Name string `json:"name" validate:"max=128"`
}

// APIKeyListResponse is the body of GET /api-keys.
type APIKeyListResponse struct {
	Keys []*model.APIKey `json:"keys"`
}

// APIKeyRotateResponse is the body of POST /api-keys/{key_id}/rotate.
type APIKeyRotateResponse struct {
	OldKeyID        string                      `json:"old_key_id"`
	OldKeyRevokedAt time.Time                   `json:"old_key_revoked_at"`
	NewKey          *model.APIKeyCreateResponse `json:"new_key"`
}

// Routes mounts the handler. Callers must already be authenticated.
func (h *APIKeyHandler) Routes(r chi.Router) {
	r.Get("/", h.ListAPIKeys)
	r.Post("/", h.CreateAPIKey)
	r.Delete("/{key_id}", h.RevokeAPIKey)
	r.Post("/{key_id}/rotate", h.RotateAPIKey)
}

// CreateAPIKey handles POST /api-keys
func (h *APIKeyHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := auth.IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
		return
	}

	var req APIKeyCreateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed: name (max)")
		return
	}

	issued, err := auth.IssueAPIKey(ctx, h.keys, caller.MemberID, req.Name, h.env)
	if err != nil {
		h.logger.Error("failed to create API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create API key")
		return
	}

	h.logger.Info("API key created",
		slog.String("key_id", issued.ID),
		slog.String("key_prefix", issued.KeyPrefix),
		slog.String("member_id", caller.MemberID.String()),
	)

	writeJSON(w, http.StatusCreated, issued)
}

// ListAPIKeys handles GET /api-keys
func (h *APIKeyHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := auth.IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
		return
	}

	keys, err := h.keys.ListAPIKeysByMember(ctx, caller.MemberID)
	if err != nil {
		h.logger.Error("failed to list API keys", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list API keys")
		return
	}
	if keys == nil {
		keys = []*model.APIKey{}
	}

	writeJSON(w, http.StatusOK, APIKeyListResponse{Keys: keys})
}

// RevokeAPIKey handles DELETE /api-keys/{key_id}
func (h *APIKeyHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := auth.IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
		return
	}

	key, ok := h.ownedActiveKey(w, r, caller)
	if !ok {
		return
	}

	if err := h.keys.RevokeAPIKey(ctx, key.ID); err != nil {
		h.logger.Error("failed to revoke API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke API key")
		return
	}

	h.logger.Info("API key revoked",
		slog.String("key_id", key.ID),
		slog.String("member_id", caller.MemberID.String()),
	)

	w.WriteHeader(http.StatusNoContent)
}

// RotateAPIKey handles POST /api-keys/{key_id}/rotate. The replacement is
// created before the old key is revoked. If the revoke fails the replacement
// is withdrawn and the request fails with 500.
func (h *APIKeyHandler) RotateAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := auth.IdentityFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
		return
	}

	oldKey, ok := h.ownedActiveKey(w, r, caller)
	if !ok {
		return
	}

	issued, err := auth.IssueAPIKey(ctx, h.keys, caller.MemberID, oldKey.Name, h.env)
	if err != nil {
		h.logger.Error("failed to create rotated API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rotate API key")
		return
	}

	if err := h.keys.RevokeAPIKey(ctx, oldKey.ID); err != nil {
		h.logger.Error("failed to revoke old API key during rotation",
			slog.String("old_key_id", oldKey.ID),
			slog.String("error", err.Error()),
		)
		// The old key still works; withdraw the replacement so the caller
		// is left with exactly one active key.
		if rbErr := h.keys.RevokeAPIKey(ctx, issued.ID); rbErr != nil {
			h.logger.Error("failed to withdraw rotated API key",
				slog.String("new_key_id", issued.ID),
				slog.String("error", rbErr.Error()),
			)
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rotate API key; the existing key is still active")
		return
	}
	revokedAt := time.Now().UTC()

	h.logger.Info("API key rotated",
		slog.String("old_key_id", oldKey.ID),
		slog.String("new_key_id", issued.ID),
		slog.String("member_id", caller.MemberID.String()),
	)

	writeJSON(w, http.StatusCreated, APIKeyRotateResponse{
		OldKeyID:        oldKey.ID,
		OldKeyRevokedAt: revokedAt,
		NewKey:          issued,
	})
}

// ownedActiveKey loads {key_id} and checks it belongs to caller and is not
// revoked. Every miss is the same 404 so key ids cannot be guessed.
func (h *APIKeyHandler) ownedActiveKey(w http.ResponseWriter, r *http.Request, caller model.Identity) (*model.APIKey, bool) {
	keyID := chi.URLParam(r, "key_id")
	if keyID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Key ID is required")
		return nil, false
	}

	key, err := h.keys.GetAPIKeyByID(r.Context(), keyID)
	if err != nil || key.MemberID != caller.MemberID || key.IsRevoked() {
		if err != nil && !errors.Is(err, repository.ErrAPIKeyNotFound) {
			h.logger.Error("failed to load API key", slog.String("error", err.Error()))
		}
		writeError(w, http.StatusNotFound, "KEY_NOT_FOUND", "API key not found or already revoked")
		return nil, false
	}
	return key, true
}
