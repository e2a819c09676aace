package handler

import (
	"net/http"

	"github.com/lumilearn/lumilearn-api/internal/api/middleware"
	"github.com/lumilearn/lumilearn-api/internal/api/response"
	"github.com/lumilearn/lumilearn-api/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Streak returns the user's current and longest study-day streaks
func (h *StatsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	streak, err := h.statsService.Streak(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to compute streak")
		return
	}

	response.OK(w, streak)
}

// Medals returns the user's medal progress
func (h *StatsHandler) Medals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	medals, err := h.statsService.Medals(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to compute medals")
		return
	}

	response.OK(w, medals)
}

// StarProgress returns today's 0..100 star score
func (h *StatsHandler) StarProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	progress, err := h.statsService.StarProgress(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to compute star progress")
		return
	}

	response.OK(w, map[string]int{"star_progress": progress})
}

// PersonalStats returns the aggregate dashboard view
func (h *StatsHandler) PersonalStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User ID not found")
		return
	}

	stats, err := h.statsService.PersonalStats(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	response.OK(w, stats)
}
