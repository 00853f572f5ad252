package word

import (
	"sync"
	"time"

	"github.com/ElyraTeam/minigames-backend/internal/models"
)

// Phase is the lifecycle stage of a room. The numeric values are part of the
// wire contract (the sync payload carries them), so the order is fixed.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseVoting
	PhaseInGame
	PhaseWaiting
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "LOBBY"
	case PhaseVoting:
		return "VOTING"
	case PhaseInGame:
		return "INGAME"
	case PhaseWaiting:
		return "WAITING"
	case PhaseGameOver:
		return "GAME_OVER"
	}
	return "UNKNOWN"
}

const (
	// startCountdownSeconds is what clients display before a round begins.
	startCountdownSeconds = 3
	// defaultStartDelay is how long the server actually waits; slightly
	// shorter than the displayed countdown so the letter lands on the beat.
	defaultStartDelay = 2200 * time.Millisecond
	// defaultSubmissionWindow bounds how long players have to send their
	// words after a stop, measured from StoppedAt.
	defaultSubmissionWindow = 5 * time.Second
)

// Game holds the full authoritative state of one word room.
//
// All exported methods except those documented otherwise assume the caller
// holds Mu. Timer callbacks acquire the lock themselves and re-validate the
// phase before acting, so a stale timer can never corrupt a later round.
type Game struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`

	Options models.RoomOptions `json:"options"`

	Phase                 Phase     `json:"state"`
	CurrentRound          int       `json:"currentRound"`
	CurrentLetter         string    `json:"currentLetter"`
	DoneLetters           []string  `json:"doneLetters"`
	CurrentVotingCategory int       `json:"currentVotingCategory"`
	StoppedAt             int64     `json:"stoppedAt"`
	CreatedAt             time.Time `json:"createdAt"`

	Players        []*models.Player          `json:"players"`
	RoundData      map[int]*models.RoundData `json:"roundData"`
	KickedSessions []string                  `json:"kickedSessions"`

	Mu sync.Mutex `json:"-"`

	// Injected by the gateway when the room is wired up.
	BroadcastFn         func(ev Event)                                                   `json:"-"`
	BroadcastToPlayerFn func(sessionID string, ev Event)                                 `json:"-"`
	OnEmpty             func(roomID string)                                              `json:"-"`
	SaveFn              func()                                                           `json:"-"`
	LogActionFn         func(actorID, actionType string, payload map[string]interface{}) `json:"-"`

	StartDelay       time.Duration `json:"-"`
	SubmissionWindow time.Duration `json:"-"`

	countdownTimer *time.Timer
	windowTimer    *time.Timer
}

// NewGame creates a room in the lobby phase with no players.
func NewGame(id, ownerID string, options models.RoomOptions) *Game {
	return &Game{
		ID:               id,
		OwnerID:          ownerID,
		Options:          options,
		Phase:            PhaseLobby,
		CurrentRound:     1,
		CreatedAt:        time.Now(),
		RoundData:        make(map[int]*models.RoundData),
		StartDelay:       defaultStartDelay,
		SubmissionWindow: defaultSubmissionWindow,
	}
}

// save triggers the wired best-effort persistence hook.
func (g *Game) save() {
	if g.SaveFn != nil {
		g.SaveFn()
	}
}

// currentRoundData returns the active round's data, or nil before the first
// start.
func (g *Game) currentRoundData() *models.RoundData {
	return g.RoundData[g.CurrentRound]
}

// CurrentCategory returns the category under vote, or "" when the index has
// run past the configured list.
func (g *Game) CurrentCategory() string {
	if g.CurrentVotingCategory < 0 || g.CurrentVotingCategory >= len(g.Options.Categories) {
		return ""
	}
	return g.Options.Categories[g.CurrentVotingCategory]
}

// StartGame begins the round countdown. Owner only, lobby only, everyone
// ready, at least two players, and rounds left to play.
// Violations are silent no-ops.
func (g *Game) StartGame(actorID string) {
	if actorID != g.OwnerID || g.Phase != PhaseLobby {
		return
	}
	if len(g.Players) < 2 || g.CurrentRound > g.Options.Rounds {
		return
	}
	for _, p := range g.Players {
		if !p.Ready {
			return
		}
	}

	letter, ok := g.drawLetter()
	if !ok {
		return
	}

	g.broadcast(Event{Type: EventStartTimer, Data: startCountdownSeconds})
	g.logAction(actorID, "start_game", map[string]interface{}{"round": g.CurrentRound})

	var t *time.Timer
	t = time.AfterFunc(g.StartDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		// A reset or a newer start may have fired in the meantime.
		if g.Phase != PhaseLobby || g.countdownTimer != t {
			return
		}
		g.beginRound(letter)
	})
	g.countdownTimer = t
}

// beginRound puts the room in play with the drawn letter.
func (g *Game) beginRound(letter string) {
	g.CurrentLetter = letter
	g.Phase = PhaseInGame
	g.RoundData[g.CurrentRound] = models.NewRoundData(g.CurrentRound, letter)

	g.SyncRoom()
	g.SyncPlayers()
	g.logAction(g.OwnerID, "round_begin", map[string]interface{}{"round": g.CurrentRound, "letter": letter})
	g.save()
}

// StopGame ends play for the current round. Any player may stop while the
// room is in play; everything else is a silent no-op.
func (g *Game) StopGame(actorID string) {
	if g.Phase != PhaseInGame {
		return
	}
	stopper := g.PlayerBySession(actorID)
	if stopper == nil {
		return
	}
	rd := g.currentRoundData()
	if rd == nil {
		return
	}

	rd.StopClickerID = actorID
	g.DoneLetters = append(g.DoneLetters, g.CurrentLetter)
	g.StoppedAt = time.Now().UnixMilli()
	g.Phase = PhaseWaiting
	for _, p := range g.Players {
		p.Voted = false
		p.LastRoundScore = 0
	}

	g.SyncRoom()
	g.SyncPlayers()
	g.logAction(actorID, "round_stop", map[string]interface{}{"round": g.CurrentRound})
	g.save()

	windowSeconds := int(g.SubmissionWindow / time.Second)
	for _, p := range g.Players {
		if p.Online {
			g.broadcastToPlayer(p.SessionID, Event{Type: EventRequestValues, Data: windowSeconds})
		} else {
			// Nothing is coming from an offline player; default immediately.
			g.recordSubmission(p.SessionID, nil)
		}
	}
	g.maybeBeginVoting()

	round := g.CurrentRound
	var t *time.Timer
	t = time.AfterFunc(g.SubmissionWindow, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		// A reset may have replaced or cleared the window since this was armed.
		if g.windowTimer != t {
			return
		}
		g.closeSubmissionWindow(round)
	})
	g.windowTimer = t
}

// SubmitValues records a player's answer sheet for the stopped round. Late
// responses are defaulted to empty submissions; responses after the phase has
// moved on are dropped entirely.
func (g *Game) SubmitValues(sessionID string, values map[string]string) {
	if g.Phase != PhaseWaiting {
		return
	}
	if g.PlayerBySession(sessionID) == nil {
		return
	}
	rd := g.currentRoundData()
	if rd == nil {
		return
	}
	if _, done := rd.PlayerValues[sessionID]; done {
		return
	}

	if time.Now().UnixMilli() > g.StoppedAt+g.SubmissionWindow.Milliseconds() {
		values = nil
	}
	g.recordSubmission(sessionID, values)
	g.maybeBeginVoting()
}

// recordSubmission stores a normalized answer sheet, filling "" for every
// category the player skipped.
func (g *Game) recordSubmission(sessionID string, values map[string]string) {
	rd := g.currentRoundData()
	if rd == nil {
		return
	}
	sheet := make(models.PlayerValues, len(g.Options.Categories))
	for _, cat := range g.Options.Categories {
		sheet[cat] = values[cat]
	}
	rd.PlayerValues[sessionID] = sheet
}

// closeSubmissionWindow defaults every missing answer sheet once the window
// elapses. The round guard discards timers left over from earlier rounds.
func (g *Game) closeSubmissionWindow(round int) {
	if g.Phase != PhaseWaiting || g.CurrentRound != round {
		return
	}
	rd := g.currentRoundData()
	if rd == nil {
		return
	}
	for _, p := range g.Players {
		if _, done := rd.PlayerValues[p.SessionID]; !done {
			g.recordSubmission(p.SessionID, nil)
		}
	}
	g.maybeBeginVoting()
}

// maybeBeginVoting transitions WAITING→VOTING once every current player has a
// recorded submission.
func (g *Game) maybeBeginVoting() {
	if g.Phase != PhaseWaiting || len(g.Players) == 0 {
		return
	}
	rd := g.currentRoundData()
	if rd == nil {
		return
	}
	for _, p := range g.Players {
		if _, done := rd.PlayerValues[p.SessionID]; !done {
			return
		}
	}

	if g.windowTimer != nil {
		g.windowTimer.Stop()
		g.windowTimer = nil
	}
	g.CurrentVotingCategory = 0
	g.prepareCategoryVoting()
	g.Phase = PhaseVoting

	g.SyncRoom()
	g.SyncPlayers()
	g.broadcast(Event{Type: EventStartVote, Data: g.CurrentCategoryVoteData()})
	g.broadcast(Event{Type: EventUpdateVoteCount, Data: 0})
	g.logAction(rd.StopClickerID, "voting_begin", map[string]interface{}{"round": g.CurrentRound})
	g.save()
}

// Reset returns the room to a fresh lobby. Owner only, allowed in any phase.
func (g *Game) Reset(actorID string) {
	if actorID != g.OwnerID {
		return
	}
	g.Phase = PhaseLobby
	g.CurrentLetter = ""
	g.DoneLetters = nil
	g.RoundData = make(map[int]*models.RoundData)
	g.CurrentVotingCategory = 0
	g.CurrentRound = 1
	g.StoppedAt = 0
	if g.countdownTimer != nil {
		g.countdownTimer.Stop()
		g.countdownTimer = nil
	}
	if g.windowTimer != nil {
		g.windowTimer.Stop()
		g.windowTimer = nil
	}
	for _, p := range g.Players {
		p.TotalScore = 0
		p.LastRoundScore = 0
		p.Voted = false
		p.Ready = p.SessionID == g.OwnerID
	}

	g.SyncRoom()
	g.SyncPlayers()
	g.logAction(actorID, "reset", nil)
	g.save()
}

// SetOptions replaces the room options. Owner only, lobby only.
func (g *Game) SetOptions(actorID string, options models.RoomOptions) error {
	if actorID != g.OwnerID {
		return models.ErrNoPermission
	}
	if g.Phase != PhaseLobby {
		return models.ErrGameRunning
	}
	if err := options.Validate(); err != nil {
		return models.ErrInvalidRoomOptions
	}
	g.Options = options

	g.SyncRoom()
	g.SyncOptions()
	g.save()
	return nil
}

// ToggleReady flips a player's readiness while in the lobby.
func (g *Game) ToggleReady(sessionID string) {
	if g.Phase != PhaseLobby {
		return
	}
	p := g.PlayerBySession(sessionID)
	if p == nil {
		return
	}
	p.Ready = !p.Ready
	g.SyncPlayers()
	g.save()
}
