package handler

import (
	"net/http"

	"github.com/lumilearn/lumilearn-api/internal/api/response"
	"github.com/lumilearn/lumilearn-api/internal/retention"
)

// AdminHandler exposes manual triggers for the scheduled cleanup jobs
type AdminHandler struct {
	engine              *retention.Engine
	incompleteAfterDays int
}

func NewAdminHandler(engine *retention.Engine, incompleteAfterDays int) *AdminHandler {
	return &AdminHandler{engine: engine, incompleteAfterDays: incompleteAfterDays}
}

// CleanupExpired runs the retention sweep over completed sessions
func (h *AdminHandler) CleanupExpired(w http.ResponseWriter, r *http.Request) {
	report := h.engine.CleanupExpiredSessions(r.Context())
	response.OK(w, report)
}

// CleanupStale runs the bulk sweep over sessions past the retention window
func (h *AdminHandler) CleanupStale(w http.ResponseWriter, r *http.Request) {
	report := h.engine.CleanupStaleSessions(r.Context())
	response.OK(w, report)
}

// CleanupIncomplete reaps abandoned sessions that never got a transcript
func (h *AdminHandler) CleanupIncomplete(w http.ResponseWriter, r *http.Request) {
	reaped, err := h.engine.CleanupIncompleteSessions(r.Context(), h.incompleteAfterDays)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to reap incomplete sessions")
		return
	}
	response.OK(w, map[string]int64{"deleted": reaped})
}

// SweepOrphanedFiles runs the orphaned-file scan
func (h *AdminHandler) SweepOrphanedFiles(w http.ResponseWriter, r *http.Request) {
	report := h.engine.CleanupOrphanedFiles(r.Context())
	response.OK(w, report)
}
