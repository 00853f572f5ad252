package word

// EventType names a server-to-client event on the room socket.
type EventType string

const (
	EventStartTimer      EventType = "start-timer"
	EventStartVote       EventType = "start-vote"
	EventSync            EventType = "sync"
	EventOptions         EventType = "options"
	EventPlayers         EventType = "players"
	EventKick            EventType = "kick"
	EventChat            EventType = "chat"
	EventUpdateVoteCount EventType = "update-vote-count"
	EventPlayerVotes     EventType = "player-votes"
	EventRequestValues   EventType = "request-values"
	EventGameOver        EventType = "game-over"
	EventPong            EventType = "pong"
)

// Client-to-server action names on the room socket.
const (
	ActionAuthenticate = "authenticate"
	ActionChat         = "chat"
	ActionReady        = "ready"
	ActionOptions      = "options"
	ActionStartGame    = "start-game"
	ActionStopGame     = "stop-game"
	ActionValues       = "values"
	ActionVote         = "vote"
	ActionConfirmVote  = "confirm-vote"
	ActionResetGame    = "reset-game"
	ActionPing         = "ping"
)

// Event is a single frame sent to clients, serialized as {"type":..,"data":..}.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// broadcast sends an event to every connected player in the room.
func (g *Game) broadcast(ev Event) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// broadcastToPlayer sends an event to a single player if they are connected.
func (g *Game) broadcastToPlayer(sessionID string, ev Event) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(sessionID, ev)
	}
}

// logAction hands an action record to the wired event sink, if any.
func (g *Game) logAction(actorID, actionType string, payload map[string]interface{}) {
	if g.LogActionFn != nil {
		g.LogActionFn(actorID, actionType, payload)
	}
}
