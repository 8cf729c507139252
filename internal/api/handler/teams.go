package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"nbaroster/backend/internal/cache"
	"nbaroster/backend/internal/repository"
)

// ListTeams serves GET /teams: the full team list ordered by name,
// cache-aside on a single fixed key.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached := h.cache.Get(ctx, cache.TeamsListKey); cached != nil {
		writeCached(w, cached, true)
		return
	}

	teams, err := h.db.Teams.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list teams")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := TeamsListResponse{Data: make([]TeamResponse, 0, len(teams))}
	for _, t := range teams {
		response.Data = append(response.Data, toTeamResponse(t))
	}

	payload, err := json.Marshal(response)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal teams response")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.cache.Set(ctx, cache.TeamsListKey, payload, h.cfg.TeamsListTTL())
	writeCached(w, payload, false)
}

// GetTeam serves GET /teams/{teamID}.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid team id")
		return
	}

	team, err := h.db.Teams.GetByID(r.Context(), teamID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Team not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int("team_id", teamID).Msg("Failed to get team")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TeamDetailResponse{Data: toTeamResponse(team)})
}

// GetTeamRoster serves GET /teams/{teamID}/roster?season=YYYY, cache-aside
// keyed per (team, season) so different seasons never share an entry.
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	teamID, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid team id")
		return
	}
	seasonYear, err := strconv.Atoi(r.URL.Query().Get("season"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid season query parameter")
		return
	}

	key := cache.RosterKey(teamID, seasonYear)
	if cached := h.cache.Get(ctx, key); cached != nil {
		writeCached(w, cached, true)
		return
	}

	if _, err := h.db.Teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Team not found")
			return
		}
		log.Error().Err(err).Int("team_id", teamID).Msg("Failed to get team")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	season, err := h.db.Seasons.GetByYear(ctx, seasonYear)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Season not found")
			return
		}
		log.Error().Err(err).Int("season", seasonYear).Msg("Failed to get season")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	players, err := h.db.Rosters.PlayersForTeamSeason(ctx, teamID, season.ID)
	if err != nil {
		log.Error().Err(err).Int("team_id", teamID).Int("season", seasonYear).Msg("Failed to query roster")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := RosterResponse{
		Data:   toPlayerResponses(players),
		TeamID: teamID,
		Season: seasonYear,
	}

	payload, err := json.Marshal(response)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal roster response")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.cache.Set(ctx, key, payload, h.cfg.RosterTTL())
	writeCached(w, payload, false)
}
