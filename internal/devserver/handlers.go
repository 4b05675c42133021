// Package devserver is an in-memory implementation of the blacklist REST
// API. It backs integration tests and local development runs; the real
// backend is an external service with the same surface.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qoralist/internal/models"
)

// Handler serves the blacklist API endpoints.
type Handler struct {
	store *Store
	maker *TokenMaker
	log   *zap.Logger
}

// NewHandler constructs a Handler over the given store and token maker.
func NewHandler(store *Store, maker *TokenMaker, log *zap.Logger) *Handler {
	return &Handler{store: store, maker: maker, log: log}
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.store.Authenticate(creds.Username, creds.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.maker.GenerateToken(user.Username)
	if err != nil {
		h.log.Error("token generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResult{Token: token, User: *user})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.UserSummary{"user": *user})
}

// Profile handles GET /user/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Search handles GET /records/search. A missing match is a JSON null body,
// not an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	seriya := r.URL.Query().Get("passportSeriya")
	code := r.URL.Query().Get("passportCode")
	if seriya == "" || code == "" {
		writeError(w, http.StatusUnprocessableEntity, "passportSeriya and passportCode are required")
		return
	}

	rec := h.store.SearchRecord(seriya, code)
	writeJSON(w, http.StatusOK, rec)
}

// MyRecords handles GET /records/my, scoped to the caller.
func (h *Handler) MyRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	records := h.store.RecordsByUser(user.ID)
	if records == nil {
		records = []models.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Create handles POST /records.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var data models.CreateRecordData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := data.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec := h.store.CreateRecord(*user, data)
	h.log.Info("record created", zap.String("id", rec.ID), zap.String("user", user.Username))
	writeJSON(w, http.StatusCreated, rec)
}

// Delete handles DELETE /records/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.DeleteRecord(user.ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireUser resolves the authenticated user placed in context by the
// bearer middleware.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*models.UserSummary, bool) {
	username := GetUsernameFromContext(r.Context())
	user, ok := h.store.UserByUsername(username)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return nil, false
	}
	return user, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
