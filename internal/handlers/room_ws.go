// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ElyraTeam/minigames-backend/internal/middleware"
	"github.com/ElyraTeam/minigames-backend/internal/models"
	"github.com/ElyraTeam/minigames-backend/internal/word"
)

// wsFrame is the wire shape of every client frame: {"type":..,"data":..}.
type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// authenticateRequest is the payload of the mandatory first frame.
type authenticateRequest struct {
	AuthToken string `json:"authToken"`
}

// authHandshakeTimeout bounds how long a fresh socket may sit unauthenticated.
const authHandshakeTimeout = 10 * time.Second

// RoomWSHandler upgrades the room socket. The client must speak the "word"
// subprotocol and open with an authenticate frame carrying the room auth
// token issued by join. A successful handshake binds the connection as the
// player's transport handle and replays the room state, including the active
// voting payload for a reconnect mid-vote.
func (gs *GameServer) RoomWSHandler(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	g, ok := gs.Store.GetGame(roomID)
	rc := gs.roomConnsFor(roomID)
	if !ok || rc == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	// Must happen before the upgrade: it may set the session cookie.
	sessionID, err := EnsureSession(w, r)
	if err != nil {
		gs.Logger.Warnf("failed to ensure session: %v", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:       []string{"word"},
		InsecureSkipVerify: true,
	})
	if err != nil {
		gs.Logger.Warnf("websocket accept failed: %v", err)
		return
	}
	if c.Subprotocol() != "word" {
		c.Close(BadSubprotocolError, "client must speak the word subprotocol")
		return
	}
	middleware.LogWebSocketConnect(gs.Logger, r.RemoteAddr, r.URL.Path)

	authCtx, cancel := context.WithTimeout(r.Context(), authHandshakeTimeout)
	_, data, err := c.Read(authCtx)
	cancel()
	if err != nil {
		c.Close(InvalidAuthTokenError, "authentication timeout")
		return
	}
	var frame wsFrame
	if err := json.Unmarshal(data, &frame); err != nil || frame.Type != word.ActionAuthenticate {
		c.Close(InvalidAuthTokenError, "expected authenticate frame")
		return
	}
	var authReq authenticateRequest
	_ = json.Unmarshal(frame.Data, &authReq)

	socketID := uuid.NewString()

	g.Mu.Lock()
	p := g.PlayerBySession(sessionID)
	if p == nil || !p.CheckAuth(authReq.AuthToken) {
		g.Mu.Unlock()
		c.Close(InvalidAuthTokenError, "invalid auth token")
		return
	}
	g.Reconnect(sessionID, socketID)
	g.Mu.Unlock()

	pc := newPlayerConn(sessionID, socketID, c)
	if old := rc.bind(pc); old != nil {
		old.shutdown(websocket.StatusNormalClosure, "superseded by newer connection")
	}
	go pc.writePump(gs.Logger)

	g.Mu.Lock()
	g.SyncRoom()
	g.SyncOptions()
	g.SyncPlayers()
	g.ReplayPhaseTo(sessionID)
	if g.SaveFn != nil {
		g.SaveFn()
	}
	g.Mu.Unlock()

	gs.readRoomMessages(r.Context(), g, rc, pc)

	stillCurrent := rc.unbind(pc)
	pc.shutdown(websocket.StatusNormalClosure, "")
	middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, nil)

	if !stillCurrent {
		return
	}
	g.Mu.Lock()
	g.HandleDisconnect(sessionID, socketID)
	g.Mu.Unlock()

	if gs.PlayerTimeout > 0 {
		grace := gs.PlayerTimeout
		time.AfterFunc(grace+250*time.Millisecond, func() {
			if cur, ok := gs.Store.GetGame(roomID); !ok || cur != g {
				return
			}
			g.Mu.Lock()
			g.ExpireOfflinePlayer(sessionID, grace)
			g.Mu.Unlock()
		})
	}
}

// readRoomMessages pumps inbound frames until the connection drops.
func (gs *GameServer) readRoomMessages(ctx context.Context, g *word.Game, rc *roomConns, pc *playerConn) {
	for {
		_, data, err := pc.conn.Read(ctx)
		if err != nil {
			return
		}
		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			gs.Logger.WithField("session", pc.sessionID).Debugf("discarding malformed frame: %v", err)
			continue
		}
		gs.handleRoomAction(g, rc, pc, frame)
	}
}

// handleRoomAction routes one client action into the state machine. Illegal
// actions are silent no-ops; the room lock is held for the whole mutation so
// broadcasts leave in a consistent order.
func (gs *GameServer) handleRoomAction(g *word.Game, rc *roomConns, pc *playerConn, frame wsFrame) {
	sessionID := pc.sessionID

	if frame.Type == word.ActionPing {
		rc.send(sessionID, word.Event{Type: word.EventPong})
		return
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()

	// A newer connection may have superseded this one, or the player may
	// have been removed; either way their frames no longer count.
	if rc.get(sessionID) != pc || g.PlayerBySession(sessionID) == nil {
		return
	}

	switch frame.Type {
	case word.ActionChat:
		var text string
		if json.Unmarshal(frame.Data, &text) == nil {
			g.PlayerChat(sessionID, text)
		}
	case word.ActionReady:
		g.ToggleReady(sessionID)
	case word.ActionOptions:
		var options models.RoomOptions
		if json.Unmarshal(frame.Data, &options) == nil {
			if err := g.SetOptions(sessionID, options); err != nil {
				gs.Logger.WithField("session", sessionID).Debugf("options rejected: %v", err)
			}
		}
	case word.ActionStartGame:
		g.StartGame(sessionID)
	case word.ActionStopGame:
		g.StopGame(sessionID)
	case word.ActionValues:
		var values map[string]string
		if json.Unmarshal(frame.Data, &values) == nil {
			g.SubmitValues(sessionID, values)
		}
	case word.ActionVote:
		var votes models.Points
		if json.Unmarshal(frame.Data, &votes) == nil {
			g.Vote(sessionID, votes)
		}
	case word.ActionConfirmVote:
		g.ConfirmVote(sessionID)
	case word.ActionResetGame:
		g.Reset(sessionID)
	default:
		gs.Logger.WithField("session", sessionID).Debugf("unknown action %q", frame.Type)
	}
}
