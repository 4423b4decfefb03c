package handler

import (
	"net/http"
	"strconv"

	"github.com/lcrawf/moonhollow/internal/api/response"
	"github.com/lcrawf/moonhollow/internal/services/stats"
)

const defaultRecordLimit = 20

// StatsHandler handles finished-game record endpoints
type StatsHandler struct {
	recorder *stats.Recorder
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(recorder *stats.Recorder) *StatsHandler {
	return &StatsHandler{
		recorder: recorder,
	}
}

// ListRecent handles GET /api/v1/games/recent
func (h *StatsHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecordLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			WriteError(w, NewInvalidRequestError("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	records, err := h.recorder.ListRecent(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameRecordListFromModels(records))
}
