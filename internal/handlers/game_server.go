// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ElyraTeam/minigames-backend/internal/cache"
	"github.com/ElyraTeam/minigames-backend/internal/database"
	"github.com/ElyraTeam/minigames-backend/internal/game"
	"github.com/ElyraTeam/minigames-backend/internal/word"
)

// GameServer holds the room store and per-room connection registries shared
// by the HTTP and WebSocket handlers.
type GameServer struct {
	Logger *logrus.Logger
	Store  *word.Store

	// PlayerTimeout > 0 enables the optional inactivity kick: a player who
	// stays offline that long is removed through the normal leave path.
	PlayerTimeout time.Duration

	mu    sync.Mutex
	conns map[string]*roomConns
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	return &GameServer{
		Logger: logger,
		Store:  word.NewStore(),
		conns:  make(map[string]*roomConns),
	}
}

// AttachRoom wires a room's outbound capabilities: event fan-out, emptiness
// cleanup, best-effort persistence and the historian event sink. Must be
// called exactly once per room before it is served.
func (gs *GameServer) AttachRoom(g *word.Game) {
	rc := newRoomConns(gs.Logger)
	gs.mu.Lock()
	gs.conns[g.ID] = rc
	gs.mu.Unlock()

	g.BroadcastFn = rc.broadcast
	g.BroadcastToPlayerFn = rc.send

	g.OnEmpty = func(roomID string) {
		gs.Store.DeleteGame(roomID)
		gs.mu.Lock()
		delete(gs.conns, roomID)
		gs.mu.Unlock()
		go func() {
			if err := database.DeleteRoom(context.Background(), roomID); err != nil && !errors.Is(err, database.ErrNotConnected) {
				gs.Logger.WithField("room", roomID).Warnf("failed to delete room snapshot: %v", err)
			}
		}()
		gs.Logger.WithField("room", roomID).Info("room emptied, deleted")
	}

	g.SaveFn = func() {
		snap := g.Snapshot()
		go func() {
			if err := database.UpsertRoom(context.Background(), snap.ID, snap); err != nil && !errors.Is(err, database.ErrNotConnected) {
				gs.Logger.WithField("room", snap.ID).Warnf("failed to persist room snapshot: %v", err)
			}
		}()
	}

	g.LogActionFn = func(actorID, actionType string, payload map[string]interface{}) {
		rec := cache.RoomEventRecord{
			RoomID:       g.ID,
			GameID:       string(game.Word),
			ActorID:      actorID,
			EventType:    actionType,
			EventPayload: payload,
			Timestamp:    time.Now().UnixMilli(),
		}
		go func() {
			if err := cache.PublishRoomEvent(context.Background(), rec); err != nil {
				gs.Logger.WithField("room", rec.RoomID).Warnf("failed to publish room event: %v", err)
			}
		}()
	}
}

// roomConnsFor returns the connection registry of a room, if the room is
// still live.
func (gs *GameServer) roomConnsFor(roomID string) *roomConns {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.conns[roomID]
}

// playerConn is one live socket bound to a player. Outbound events go
// through a buffered channel drained by a single write pump, so events reach
// each client in the order they were broadcast.
type playerConn struct {
	sessionID string
	socketID  string
	conn      *websocket.Conn
	out       chan word.Event
	done      chan struct{}
	closeOnce sync.Once
}

func newPlayerConn(sessionID, socketID string, conn *websocket.Conn) *playerConn {
	return &playerConn{
		sessionID: sessionID,
		socketID:  socketID,
		conn:      conn,
		out:       make(chan word.Event, 32),
		done:      make(chan struct{}),
	}
}

// shutdown closes the socket with the given code and stops the write pump.
func (pc *playerConn) shutdown(code websocket.StatusCode, reason string) {
	pc.closeOnce.Do(func() {
		close(pc.done)
		pc.conn.Close(code, reason)
	})
}

// writePump drains the outbound channel onto the wire. Runs in its own
// goroutine per connection.
func (pc *playerConn) writePump(logger *logrus.Logger) {
	for {
		select {
		case <-pc.done:
			return
		case ev := <-pc.out:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("failed to marshal event %s: %v", ev.Type, err)
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = pc.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				pc.shutdown(websocket.StatusNormalClosure, "write failed")
				return
			}
		}
	}
}

// roomConns tracks the live connection per player for one room.
type roomConns struct {
	logger *logrus.Logger
	mu     sync.Mutex
	conns  map[string]*playerConn
}

func newRoomConns(logger *logrus.Logger) *roomConns {
	return &roomConns{
		logger: logger,
		conns:  make(map[string]*playerConn),
	}
}

// bind registers a connection as the player's current one, returning any
// connection it replaced so the caller can close it.
func (rc *roomConns) bind(pc *playerConn) *playerConn {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	old := rc.conns[pc.sessionID]
	rc.conns[pc.sessionID] = pc
	return old
}

// unbind removes a connection if it is still the player's current one.
// Returns false when a newer connection has already replaced it.
func (rc *roomConns) unbind(pc *playerConn) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.conns[pc.sessionID] != pc {
		return false
	}
	delete(rc.conns, pc.sessionID)
	return true
}

func (rc *roomConns) get(sessionID string) *playerConn {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.conns[sessionID]
}

// broadcast queues an event for every connected player. A client too slow to
// drain its buffer loses the event; the next sync broadcast repairs it.
func (rc *roomConns) broadcast(ev word.Event) {
	rc.mu.Lock()
	targets := make([]*playerConn, 0, len(rc.conns))
	for _, pc := range rc.conns {
		targets = append(targets, pc)
	}
	rc.mu.Unlock()

	for _, pc := range targets {
		select {
		case pc.out <- ev:
		default:
			rc.logger.WithField("session", pc.sessionID).Warnf("dropping event %s: slow consumer", ev.Type)
		}
	}
}

// send queues an event for one player.
func (rc *roomConns) send(sessionID string, ev word.Event) {
	pc := rc.get(sessionID)
	if pc == nil {
		return
	}
	select {
	case pc.out <- ev:
	default:
		rc.logger.WithField("session", sessionID).Warnf("dropping event %s: slow consumer", ev.Type)
	}
}
