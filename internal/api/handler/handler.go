// Package handler provides the read API endpoint handlers. Each response
// shape has one explicit struct; handlers consult the cache first and fall
// back to storage on a miss or cache failure.
package handler

import (
	"encoding/json"
	"net/http"

	"nbaroster/backend/internal/cache"
	"nbaroster/backend/internal/config"
	"nbaroster/backend/internal/models"
	"nbaroster/backend/internal/repository"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	db    *repository.Database
	cache *cache.Client
	cfg   *config.Config
}

// New creates a Handler with shared dependencies.
func New(db *repository.Database, c *cache.Client, cfg *config.Config) *Handler {
	return &Handler{db: db, cache: c, cfg: cfg}
}

// --------------------------------------------------------------------------
// Response shapes
// --------------------------------------------------------------------------

// TeamResponse is the serialized form of a team.
type TeamResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// PlayerResponse is the serialized form of a player.
type PlayerResponse struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// TeamsListResponse wraps GET /teams.
type TeamsListResponse struct {
	Data []TeamResponse `json:"data"`
}

// TeamDetailResponse wraps GET /teams/{id}.
type TeamDetailResponse struct {
	Data TeamResponse `json:"data"`
}

// RosterResponse wraps GET /teams/{id}/roster.
type RosterResponse struct {
	Data   []PlayerResponse `json:"data"`
	TeamID int              `json:"team_id"`
	Season int              `json:"season"`
}

// PaginatedPlayersResponse wraps GET /players.
type PaginatedPlayersResponse struct {
	Data   []PlayerResponse `json:"data"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ErrorResponse is the standard error shape.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func toTeamResponse(t *models.Team) TeamResponse {
	return TeamResponse{ID: t.ID, Name: t.Name, Abbreviation: t.Abbreviation}
}

func toPlayerResponses(players []*models.Player) []PlayerResponse {
	out := make([]PlayerResponse, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerResponse{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Position:  p.Position,
		})
	}
	return out
}

// --------------------------------------------------------------------------
// Response writers
// --------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCached writes a payload that went through the cache, with an X-Cache
// header indicating whether it was served from there.
func writeCached(w http.ResponseWriter, payload []byte, hit bool) {
	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
