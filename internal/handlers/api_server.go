// internal/handlers/api_server.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ElyraTeam/minigames-backend/internal/database"
	"github.com/ElyraTeam/minigames-backend/internal/game"
	"github.com/ElyraTeam/minigames-backend/internal/middleware"
	"github.com/ElyraTeam/minigames-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// RegisterRoutes builds the HTTP surface: room lifecycle, the room socket,
// and the small auxiliary endpoints.
func (gs *GameServer) RegisterRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LogMiddleware(gs.Logger))

	r.HandleFunc("/", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", gs.StatsHandler).Methods(http.MethodGet)
	r.HandleFunc("/feedback", gs.FeedbackHandler).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/word/room/create", gs.CreateRoomHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/word/room/join/{roomId}", gs.JoinRoomHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/word/room/leave/{roomId}", gs.LeaveRoomHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/word/room/kick/{roomId}", gs.KickRoomHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/word/room/options/{roomId}", gs.RoomOptionsHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/word/room/debug/{roomId}", gs.DebugRoomHandler).Methods(http.MethodGet)

	r.HandleFunc("/word/ws/{roomId}", gs.RoomWSHandler)

	return r
}

// HealthHandler answers liveness probes.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "All good!")
}

// StatsHandler reports live room/player counts per registered game type.
func (gs *GameServer) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]models.GameStats)
	for _, d := range game.All() {
		stats[string(d.ID)] = d.Stats()
	}
	writeJSON(w, http.StatusOK, stats)
}

// FeedbackHandler stores a user feedback entry.
func (gs *GameServer) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var fb models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeAPIError(w, gs.Logger, models.ErrUnexpected)
		return
	}
	if fb.Name == "" || fb.Message == "" || !game.Valid(game.ID(fb.Game)) {
		writeJSON(w, http.StatusForbidden, models.ErrUnexpected)
		return
	}
	fb.ReceivedAt = time.Now().UnixMilli()

	if err := database.InsertFeedback(r.Context(), fb); err != nil && !errors.Is(err, database.ErrNotConnected) {
		gs.Logger.Warnf("failed to store feedback: %v", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

type roomOptionsRequest struct {
	Options models.RoomOptions `json:"options"`
}

// RoomOptionsHandler lets the owner replace room options over HTTP.
func (gs *GameServer) RoomOptionsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := EnsureSession(w, r)
	if err != nil {
		writeAPIError(w, gs.Logger, err)
		return
	}

	var req roomOptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, gs.Logger, models.ErrUnexpected)
		return
	}

	g, ok := gs.Store.GetGame(mux.Vars(r)["roomId"])
	if !ok {
		writeAPIError(w, gs.Logger, models.ErrRoomNotFound)
		return
	}

	g.Mu.Lock()
	if g.PlayerBySession(sessionID) == nil {
		g.Mu.Unlock()
		writeAPIError(w, gs.Logger, models.ErrUnknownPlayer)
		return
	}
	err = g.SetOptions(sessionID, req.Options)
	g.Mu.Unlock()
	if err != nil {
		writeAPIError(w, gs.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAPIError maps an error to its numeric-coded JSON form. Anything that
// is not an APIError becomes the generic 1999.
func writeAPIError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		logger.Errorf("unexpected handler error: %v", err)
		apiErr = models.ErrUnexpected
	}
	writeJSON(w, apiErr.Status, apiErr)
}
