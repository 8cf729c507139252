package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"nbaroster/backend/internal/repository"
)

const (
	defaultPlayerLimit = 20
	maxPlayerLimit     = 100
)

// ListPlayers serves GET /players with optional filters and pagination:
// team_id (membership on that team in any season), position (exact),
// name (case-insensitive substring on first or last name).
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.PlayerFilter{
		Position: q.Get("position"),
		Name:     q.Get("name"),
		Limit:    defaultPlayerLimit,
	}

	if raw := q.Get("team_id"); raw != "" {
		teamID, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid team_id")
			return
		}
		filter.TeamID = teamID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPlayerLimit {
			writeError(w, http.StatusBadRequest, "Invalid limit (1-100)")
			return
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		filter.Offset = offset
	}

	players, total, err := h.db.Players.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list players")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, PaginatedPlayersResponse{
		Data:   toPlayerResponses(players),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}
