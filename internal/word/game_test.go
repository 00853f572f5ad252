// internal/word/game_test.go
package word

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElyraTeam/minigames-backend/internal/models"
)

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []Event
	playerEvents map[string][]Event
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{
		playerEvents: make(map[string][]Event),
	}
}

func (mb *mockBroadcaster) broadcastFn(ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(sessionID string, ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[sessionID] = append(mb.playerEvents[sessionID], ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = nil
	mb.playerEvents = make(map[string][]Event)
}

func (mb *mockBroadcaster) eventsOfType(t EventType) []Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []Event
	for _, ev := range mb.allEvents {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (mb *mockBroadcaster) eventTypes() []EventType {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	types := make([]EventType, 0, len(mb.allEvents))
	for _, ev := range mb.allEvents {
		types = append(types, ev.Type)
	}
	return types
}

func (mb *mockBroadcaster) playerEventsOfType(sessionID string, t EventType) []Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []Event
	for _, ev := range mb.playerEvents[sessionID] {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func defaultTestOptions() models.RoomOptions {
	return models.RoomOptions{
		Rounds:     2,
		Letters:    []string{"ب", "س", "م"},
		Categories: []string{"ولد", "بلد"},
		MaxPlayers: 4,
	}
}

// setupTestGame initializes a room with joined, ready, online players and a
// mock broadcaster.
func setupTestGame(t *testing.T, numPlayers int, opts *models.RoomOptions) (*Game, []*models.Player, *mockBroadcaster) {
	t.Helper()

	o := defaultTestOptions()
	if opts != nil {
		o = *opts
	}
	g := NewGame("room1", "", o)
	g.StartDelay = 10 * time.Millisecond

	mb := newMockBroadcaster()
	g.BroadcastFn = mb.broadcastFn
	g.BroadcastToPlayerFn = mb.broadcastToPlayerFn

	players := make([]*models.Player, numPlayers)
	for i := range players {
		p, err := g.Join(fmt.Sprintf("session-%d", i+1), fmt.Sprintf("player-%d", i+1))
		require.NoError(t, err)
		p.Online = true
		p.Ready = true
		players[i] = p
	}
	require.Equal(t, players[0].SessionID, g.OwnerID, "first joiner should own the room")

	mb.clear()
	return g, players, mb
}

// submitAll records a full answer sheet for every player, moving the room
// from WAITING into VOTING.
func submitAll(t *testing.T, g *Game, sheets map[string]map[string]string) {
	t.Helper()
	for sessionID, sheet := range sheets {
		g.SubmitValues(sessionID, sheet)
	}
	require.Equal(t, PhaseVoting, g.Phase, "all submissions in, room should be voting")
}

func TestStartGamePreconditions(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)

	// Non-owner cannot start.
	g.StartGame(players[1].SessionID)
	assert.Equal(t, PhaseLobby, g.Phase)
	assert.Empty(t, mb.eventsOfType(EventStartTimer))

	// Unready player blocks the start.
	players[1].Ready = false
	g.StartGame(players[0].SessionID)
	assert.Empty(t, mb.eventsOfType(EventStartTimer))
	players[1].Ready = true

	// Owner with a ready room starts the countdown.
	g.StartGame(players[0].SessionID)
	require.Len(t, mb.eventsOfType(EventStartTimer), 1)
	assert.Equal(t, PhaseLobby, g.Phase, "phase flips only after the delay")

	require.Eventually(t, func() bool {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		return g.Phase == PhaseInGame
	}, time.Second, 5*time.Millisecond)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	require.NotNil(t, g.RoundData[1])
	assert.Equal(t, g.CurrentLetter, g.RoundData[1].Letter)
	assert.Contains(t, g.Options.Letters, g.CurrentLetter)
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	g, players, mb := setupTestGame(t, 1, nil)

	g.StartGame(players[0].SessionID)
	assert.Empty(t, mb.eventsOfType(EventStartTimer))
	assert.Equal(t, PhaseLobby, g.Phase)
}

func TestStartGameLetterExhaustion(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.DoneLetters = append([]string(nil), g.Options.Letters...)

	g.StartGame(players[0].SessionID)
	assert.Empty(t, mb.eventsOfType(EventStartTimer))
	assert.Equal(t, PhaseLobby, g.Phase)
}

func TestStopGame(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.beginRound("ب")
	letter := g.CurrentLetter
	players[0].Voted = true
	mb.clear()

	// A non-member stop is ignored.
	g.StopGame("stranger")
	assert.Equal(t, PhaseInGame, g.Phase)

	g.StopGame(players[1].SessionID)
	assert.Equal(t, PhaseWaiting, g.Phase)
	assert.Contains(t, g.DoneLetters, letter)
	assert.Equal(t, players[1].SessionID, g.RoundData[1].StopClickerID)
	assert.NotZero(t, g.StoppedAt)
	for _, p := range g.Players {
		assert.False(t, p.Voted)
		assert.Zero(t, p.LastRoundScore)
	}

	// Every online player is asked for their words.
	for _, p := range players {
		assert.Len(t, mb.playerEventsOfType(p.SessionID, EventRequestValues), 1)
	}

	// A second stop is a no-op.
	g.StopGame(players[0].SessionID)
	assert.Equal(t, players[1].SessionID, g.RoundData[1].StopClickerID)
}

func TestStopGameDefaultsOfflinePlayers(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.beginRound("ب")
	players[1].Online = false
	mb.clear()

	g.StopGame(players[0].SessionID)

	rd := g.RoundData[1]
	require.Contains(t, rd.PlayerValues, players[1].SessionID)
	for _, cat := range g.Options.Categories {
		assert.Equal(t, "", rd.PlayerValues[players[1].SessionID][cat])
	}
	assert.Empty(t, mb.playerEventsOfType(players[1].SessionID, EventRequestValues))
}

func TestSubmissionWindowExpiry(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	g.SubmissionWindow = 50 * time.Millisecond
	g.beginRound("ب")
	g.StopGame(players[0].SessionID)

	g.SubmitValues(players[0].SessionID, map[string]string{"ولد": "بدر", "بلد": "بغداد"})
	assert.Equal(t, PhaseWaiting, g.Phase, "one submission missing")

	require.Eventually(t, func() bool {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		return g.Phase == PhaseVoting
	}, time.Second, 5*time.Millisecond)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	rd := g.RoundData[1]
	assert.Equal(t, "بدر", rd.PlayerValues[players[0].SessionID]["ولد"])
	assert.Equal(t, "", rd.PlayerValues[players[1].SessionID]["ولد"], "silent player defaults to empty")
}

func TestLateSubmissionRecordedEmpty(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	g.beginRound("ب")
	g.StopGame(players[0].SessionID)

	// Pretend the window closed a while ago.
	g.StoppedAt -= (10 * time.Second).Milliseconds()

	g.SubmitValues(players[0].SessionID, map[string]string{"ولد": "بدر"})
	rd := g.RoundData[1]
	require.Contains(t, rd.PlayerValues, players[0].SessionID)
	assert.Equal(t, "", rd.PlayerValues[players[0].SessionID]["ولد"])
}

func TestSubmitValuesPhaseGuard(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	g.beginRound("ب")

	// Still in play; nothing should be recorded.
	g.SubmitValues(players[0].SessionID, map[string]string{"ولد": "بدر"})
	assert.Empty(t, g.RoundData[1].PlayerValues)

	// Duplicate submissions keep the first sheet.
	g.StopGame(players[0].SessionID)
	g.SubmitValues(players[0].SessionID, map[string]string{"ولد": "بدر", "بلد": "بغداد"})
	g.SubmitValues(players[0].SessionID, map[string]string{"ولد": "باسم", "بلد": "بيروت"})
	assert.Equal(t, "بدر", g.RoundData[1].PlayerValues[players[0].SessionID]["ولد"])
}

func TestBroadcastOrderOnStop(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.beginRound("ب")
	mb.clear()

	g.StopGame(players[0].SessionID)

	types := mb.eventTypes()
	require.GreaterOrEqual(t, len(types), 2)
	assert.Equal(t, EventSync, types[0], "room snapshot first")
	assert.Equal(t, EventPlayers, types[1], "roster second")
}

func TestBroadcastOrderOnVotingStart(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.beginRound("ب")
	g.StopGame(players[0].SessionID)
	mb.clear()

	submitAll(t, g, map[string]map[string]string{
		players[0].SessionID: {"ولد": "بدر", "بلد": "بغداد"},
		players[1].SessionID: {"ولد": "باسم", "بلد": "بيروت"},
	})

	var syncIdx, playersIdx, voteIdx int = -1, -1, -1
	for i, typ := range mb.eventTypes() {
		switch typ {
		case EventSync:
			if syncIdx < 0 {
				syncIdx = i
			}
		case EventPlayers:
			if playersIdx < 0 {
				playersIdx = i
			}
		case EventStartVote:
			if voteIdx < 0 {
				voteIdx = i
			}
		}
	}
	require.GreaterOrEqual(t, syncIdx, 0)
	require.GreaterOrEqual(t, playersIdx, 0)
	require.GreaterOrEqual(t, voteIdx, 0)
	assert.Less(t, syncIdx, playersIdx)
	assert.Less(t, playersIdx, voteIdx)
}

func TestReset(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.beginRound("ب")
	g.StopGame(players[0].SessionID)
	players[0].TotalScore = 30
	players[1].TotalScore = 10
	mb.clear()

	// Non-owner reset is ignored.
	g.Reset(players[1].SessionID)
	assert.Equal(t, PhaseWaiting, g.Phase)

	g.Reset(players[0].SessionID)
	assert.Equal(t, PhaseLobby, g.Phase)
	assert.Equal(t, 1, g.CurrentRound)
	assert.Empty(t, g.CurrentLetter)
	assert.Empty(t, g.DoneLetters)
	assert.Empty(t, g.RoundData)
	assert.Zero(t, g.StoppedAt)
	assert.Zero(t, players[0].TotalScore)
	assert.Zero(t, players[1].TotalScore)
	assert.True(t, players[0].Ready, "owner stays ready")
	assert.False(t, players[1].Ready)
}

func TestToggleReady(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)

	g.ToggleReady(players[1].SessionID)
	assert.False(t, players[1].Ready)
	g.ToggleReady(players[1].SessionID)
	assert.True(t, players[1].Ready)

	g.beginRound("ب")
	g.ToggleReady(players[1].SessionID)
	assert.True(t, players[1].Ready, "readiness is lobby-only")
}

func TestSetOptions(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)

	err := g.SetOptions(players[1].SessionID, defaultTestOptions())
	assert.ErrorIs(t, err, models.ErrNoPermission)

	bad := defaultTestOptions()
	bad.Rounds = 0
	err = g.SetOptions(players[0].SessionID, bad)
	assert.ErrorIs(t, err, models.ErrInvalidRoomOptions)

	mb.clear()
	updated := defaultTestOptions()
	updated.MaxPlayers = 3
	require.NoError(t, g.SetOptions(players[0].SessionID, updated))
	assert.Equal(t, 3, g.Options.MaxPlayers)
	assert.Len(t, mb.eventsOfType(EventOptions), 1)

	g.beginRound("ب")
	err = g.SetOptions(players[0].SessionID, defaultTestOptions())
	assert.ErrorIs(t, err, models.ErrGameRunning)
}

func TestResetDiscardsPendingSubmissionWindow(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	g.SubmissionWindow = 50 * time.Millisecond
	g.beginRound("ب")
	g.StopGame(players[0].SessionID)

	g.Mu.Lock()
	g.Reset(players[0].SessionID)
	g.SubmissionWindow = time.Hour
	g.beginRound("س")
	g.StopGame(players[1].SessionID)
	g.Mu.Unlock()

	// Give the timer armed before the reset time to fire.
	time.Sleep(150 * time.Millisecond)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Equal(t, PhaseWaiting, g.Phase, "a timer armed before the reset must not close the new round's window")
	require.NotNil(t, g.RoundData[1])
	assert.NotContains(t, g.RoundData[1].PlayerValues, players[0].SessionID)
	assert.NotContains(t, g.RoundData[1].PlayerValues, players[1].SessionID)
}

func TestSnapshotDetachedFromLiveRound(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	p1, p2 := players[0].SessionID, players[1].SessionID
	startVotingRound(t, g, players, distinctSheets(players))

	snap := g.Snapshot()
	require.NotSame(t, g.RoundData[1], snap.RoundData[1])

	g.Vote(p1, models.Points{p2: 10})
	g.ConfirmVote(p1)

	rd := snap.RoundData[1]
	assert.Empty(t, rd.ConfirmedVotes)
	assert.NotContains(t, rd.ClientVotes[p1], p2)
	assert.NotContains(t, rd.Votes[p2]["ولد"], p1)
}

func TestSnapshotMarshalSafeDuringVoting(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	p1, p2 := players[0].SessionID, players[1].SessionID
	startVotingRound(t, g, players, distinctSheets(players))

	// Persist the way the gateway does: snapshot under the lock, marshal on
	// a goroutine after the lock is released.
	var wg sync.WaitGroup
	g.SaveFn = func() {
		snap := g.Snapshot()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := json.Marshal(snap)
			assert.NoError(t, err)
		}()
	}

	for i := 0; i < len(g.Options.Categories); i++ {
		g.Mu.Lock()
		g.Vote(p1, models.Points{p2: 10})
		g.ConfirmVote(p1)
		g.Mu.Unlock()
		g.Mu.Lock()
		g.Vote(p2, models.Points{p1: 5})
		g.ConfirmVote(p2)
		g.Mu.Unlock()
	}
	wg.Wait()

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.Equal(t, PhaseLobby, g.Phase)
	assert.Equal(t, 2, g.CurrentRound)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	g.beginRound("ب")
	g.StopGame(players[0].SessionID)
	submitAll(t, g, map[string]map[string]string{
		players[0].SessionID: {"ولد": "بدر", "بلد": "بغداد"},
		players[1].SessionID: {"ولد": "باسم", "بلد": "بيروت"},
	})

	restored := RestoreGame(g.Snapshot())

	assert.Equal(t, g.ID, restored.ID)
	assert.Equal(t, g.OwnerID, restored.OwnerID)
	assert.Equal(t, PhaseVoting, restored.Phase)
	assert.Equal(t, g.CurrentRound, restored.CurrentRound)
	require.Len(t, restored.Players, 2)
	assert.Equal(t, players[0].AuthToken, restored.Players[0].AuthToken, "tokens survive so reconnects still work")
	assert.False(t, restored.Players[0].Online, "restored players start offline")
	require.NotNil(t, restored.RoundData[1])
	assert.Equal(t, "بدر", restored.RoundData[1].PlayerValues[players[0].SessionID]["ولد"])
}
