// internal/handlers/room.go
package handlers

import (
	"crypto/rand"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/ElyraTeam/minigames-backend/internal/models"
	"github.com/ElyraTeam/minigames-backend/internal/word"
)

const roomCodeLength = 8

const roomCodeCharset = "useandom26T198340PX75pxJACKVERYMINDBUSHWOLFGQZbfghjklqvwyzrict"

// newRoomCode returns a short shareable room id.
func newRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = roomCodeCharset[int(b)%len(roomCodeCharset)]
	}
	return string(buf)
}

type createRoomRequest struct {
	Nickname string             `json:"nickname"`
	Options  models.RoomOptions `json:"options"`
}

// CreateRoomHandler creates an empty room and returns its id. The creator
// still has to join; the first player to join becomes the owner.
func (gs *GameServer) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := EnsureSession(w, r)
	if err != nil {
		writeAPIError(w, gs.Logger, err)
		return
	}

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nickname == "" {
		writeAPIError(w, gs.Logger, models.ErrInvalidRoomOptions)
		return
	}

	options := req.Options
	if len(options.Letters) == 0 {
		options.Letters = word.DefaultLettersArabic
	}
	if len(options.Categories) == 0 {
		options.Categories = word.DefaultCategoriesArabic
	}
	if err := options.Validate(); err != nil {
		writeAPIError(w, gs.Logger, models.ErrInvalidRoomOptions)
		return
	}

	g := word.NewGame(newRoomCode(), "", options)
	gs.AttachRoom(g)
	gs.Store.AddGame(g)

	gs.Logger.WithField("room", g.ID).WithField("session", sessionID).Info("room created")
	writeJSON(w, http.StatusOK, map[string]string{"roomId": g.ID})
}

type joinRoomRequest struct {
	Nickname string `json:"nickname"`
}

type joinRoomResponse struct {
	RoomID    string             `json:"roomId"`
	PlayerID  string             `json:"playerId"`
	AuthToken string             `json:"authToken"`
	Options   models.RoomOptions `json:"options"`
}

// JoinRoomHandler admits the caller to a room, or refreshes the token of a
// player rejoining mid-game.
func (gs *GameServer) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := EnsureSession(w, r)
	if err != nil {
		writeAPIError(w, gs.Logger, err)
		return
	}

	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nickname == "" {
		writeAPIError(w, gs.Logger, models.ErrUnexpected)
		return
	}

	g, ok := gs.Store.GetGame(mux.Vars(r)["roomId"])
	if !ok {
		writeAPIError(w, gs.Logger, models.ErrRoomNotFound)
		return
	}

	g.Mu.Lock()
	p, err := g.Join(sessionID, req.Nickname)
	if err != nil {
		g.Mu.Unlock()
		writeAPIError(w, gs.Logger, err)
		return
	}
	g.SyncRoom()
	g.SyncPlayers()
	resp := joinRoomResponse{
		RoomID:    g.ID,
		PlayerID:  p.SessionID,
		AuthToken: p.AuthToken,
		Options:   g.Options,
	}
	if g.SaveFn != nil {
		g.SaveFn()
	}
	g.Mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// LeaveRoomHandler removes the caller from a room and drops their socket.
func (gs *GameServer) LeaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := EnsureSession(w, r)
	if err != nil {
		writeAPIError(w, gs.Logger, err)
		return
	}

	roomID := mux.Vars(r)["roomId"]
	g, ok := gs.Store.GetGame(roomID)
	if !ok {
		writeAPIError(w, gs.Logger, models.ErrRoomNotFound)
		return
	}
	rc := gs.roomConnsFor(roomID)

	g.Mu.Lock()
	if g.PlayerBySession(sessionID) == nil {
		g.Mu.Unlock()
		writeAPIError(w, gs.Logger, models.ErrUnknownPlayer)
		return
	}
	g.Leave(sessionID)
	g.Mu.Unlock()

	if rc != nil {
		if pc := rc.get(sessionID); pc != nil {
			rc.unbind(pc)
			pc.shutdown(websocket.StatusNormalClosure, "left room")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type kickRoomRequest struct {
	PlayerID string `json:"playerId"`
}

// KickRoomHandler bans and removes a player. Owner only.
func (gs *GameServer) KickRoomHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := EnsureSession(w, r)
	if err != nil {
		writeAPIError(w, gs.Logger, err)
		return
	}

	var req kickRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, gs.Logger, models.ErrUnexpected)
		return
	}

	roomID := mux.Vars(r)["roomId"]
	g, ok := gs.Store.GetGame(roomID)
	if !ok {
		writeAPIError(w, gs.Logger, models.ErrRoomNotFound)
		return
	}
	rc := gs.roomConnsFor(roomID)

	g.Mu.Lock()
	if g.PlayerBySession(sessionID) == nil {
		g.Mu.Unlock()
		writeAPIError(w, gs.Logger, models.ErrUnknownPlayer)
		return
	}
	if sessionID != g.OwnerID {
		g.Mu.Unlock()
		writeAPIError(w, gs.Logger, models.ErrNoPermission)
		return
	}
	if err := g.Kick(req.PlayerID); err != nil {
		g.Mu.Unlock()
		writeAPIError(w, gs.Logger, err)
		return
	}
	g.Mu.Unlock()

	if rc != nil {
		if pc := rc.get(req.PlayerID); pc != nil {
			rc.unbind(pc)
			pc.shutdown(KickedFromRoomError, "kicked from room")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// DebugRoomHandler dumps a room's full snapshot. Development aid.
func (gs *GameServer) DebugRoomHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := gs.Store.GetGame(mux.Vars(r)["roomId"])
	if !ok {
		writeAPIError(w, gs.Logger, models.ErrRoomNotFound)
		return
	}

	g.Mu.Lock()
	snap := g.Snapshot()
	g.Mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"game": snap})
}
