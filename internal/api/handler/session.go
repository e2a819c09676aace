package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lumilearn/lumilearn-api/internal/api/middleware"
	"github.com/lumilearn/lumilearn-api/internal/api/response"
	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/lumilearn/lumilearn-api/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create returns the user's existing active session, or starts a new one.
// Repeated calls never produce a second active session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	var initial domain.SessionPatch
	if err := json.NewDecoder(r.Body).Decode(&initial); err != nil {
		// Optional body
	}

	session, err := h.sessionService.CreateSession(r.Context(), userID, &initial)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	response.JSON(w, http.StatusCreated, session)
}

// GetActive returns the user's active session, repairing duplicates inline
func (h *SessionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	session, err := h.sessionService.GetActiveSession(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to load active session")
		return
	}
	if session == nil {
		response.NotFound(w, "No active session")
		return
	}

	response.OK(w, session)
}

// List returns the user's session history
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	sessions, err := h.sessionService.ListSessions(r.Context(), userID, limit, offset)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response.OK(w, sessions)
}

// Get returns a single session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	session, err := h.sessionService.GetSession(r.Context(), sessionID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "Session not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to load session")
		return
	}

	response.OK(w, session)
}

// Update applies a partial update to a session
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	var patch domain.SessionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	session, err := h.sessionService.UpdateSession(r.Context(), sessionID, userID, &patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "Session not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	response.OK(w, session)
}

// Delete removes a session. Deleting an already-absent session succeeds.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	alreadyGone, err := h.sessionService.DeleteSession(r.Context(), sessionID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "Session not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	response.OK(w, map[string]any{
		"message":      "Session deleted",
		"already_gone": alreadyGone,
	})
}

// Resume reactivates a paused session
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	session, err := h.sessionService.ResumeSession(r.Context(), sessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "Session not found")
		case errors.Is(err, domain.ErrInvalidState):
			response.Conflict(w, "Completed sessions cannot be resumed")
		default:
			response.Error(w, http.StatusInternalServerError, "Failed to resume session")
		}
		return
	}

	response.OK(w, session)
}
