// internal/word/players_test.go
package word

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElyraTeam/minigames-backend/internal/models"
)

func TestJoinErrors(t *testing.T) {
	opts := defaultTestOptions()
	opts.MaxPlayers = 2
	g, players, _ := setupTestGame(t, 2, &opts)

	_, err := g.Join("session-3", "player-3")
	assert.ErrorIs(t, err, models.ErrRoomFull)

	_, err = g.Join("session-9", players[0].Nickname)
	assert.ErrorIs(t, err, models.ErrNicknameInUse)

	g.beginRound("ب")
	opts.MaxPlayers = 4
	g.Options = opts
	_, err = g.Join("session-3", "player-3")
	assert.ErrorIs(t, err, models.ErrGameRunning)
}

func TestRejoinRefreshesToken(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	oldToken := players[0].AuthToken

	g.beginRound("ب")

	// A known identity may rejoin in any phase, even under another nickname.
	p, err := g.Join(players[0].SessionID, "whatever")
	require.NoError(t, err)
	assert.Same(t, players[0], p)
	assert.NotEqual(t, oldToken, p.AuthToken)
	assert.Len(t, g.Players, 2)
}

func TestDisconnectKeepsPlayer(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.Reconnect(players[0].SessionID, "socket-a")
	mb.clear()

	// A stale socket ID must not knock out a newer connection.
	g.HandleDisconnect(players[0].SessionID, "socket-old")
	assert.True(t, players[0].Online)

	g.HandleDisconnect(players[0].SessionID, "socket-a")
	assert.False(t, players[0].Online)
	assert.NotZero(t, players[0].OfflineAt)
	assert.Len(t, g.Players, 2, "disconnect never removes the player")
	assert.Len(t, mb.eventsOfType(EventPlayers), 1)
}

func TestReconnectReplaysVotingState(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	p1, p2 := players[0].SessionID, players[1].SessionID
	startVotingRound(t, g, players, distinctSheets(players))

	g.Vote(p1, models.Points{p2: 10})
	g.ConfirmVote(p1)

	g.Reconnect(p2, "socket-b")
	g.HandleDisconnect(p2, "socket-b")
	mb.clear()

	g.Reconnect(p2, "socket-c")
	g.ReplayPhaseTo(p2)

	assert.True(t, players[1].Online)
	require.Len(t, mb.playerEventsOfType(p2, EventStartVote), 1)
	counts := mb.playerEventsOfType(p2, EventUpdateVoteCount)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Data, "one confirmation happened while away")
	assert.Len(t, mb.playerEventsOfType(p2, EventPlayerVotes), 1)

	// Nothing was lost while the player was offline.
	assert.Equal(t, []string{p1}, g.RoundData[1].ConfirmedVotes)
}

func TestReplayAfterGameOver(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	g.Phase = PhaseGameOver
	players[0].TotalScore = 20
	mb.clear()

	g.ReplayPhaseTo(players[1].SessionID)

	overs := mb.playerEventsOfType(players[1].SessionID, EventGameOver)
	require.Len(t, overs, 1)
	standings, ok := overs[0].Data.([]GameOverEntry)
	require.True(t, ok)
	assert.Equal(t, players[0].SessionID, standings[0].ID)
}

func TestLeaveTransfersOwnership(t *testing.T) {
	g, players, mb := setupTestGame(t, 3, nil)
	owner := players[0]
	mb.clear()

	g.Leave(owner.SessionID)

	assert.Nil(t, g.PlayerBySession(owner.SessionID))
	assert.Equal(t, players[1].SessionID, g.OwnerID)
	assert.True(t, players[1].Ready, "new owner is auto-readied")
	require.NotEmpty(t, mb.eventsOfType(EventChat), "departure and handoff are announced")
}

func TestLeaveOfLastPlayerTriggersOnEmpty(t *testing.T) {
	g, players, _ := setupTestGame(t, 2, nil)
	var emptied string
	g.OnEmpty = func(roomID string) { emptied = roomID }

	g.Leave(players[0].SessionID)
	assert.Empty(t, emptied)
	g.Leave(players[1].SessionID)
	assert.Equal(t, g.ID, emptied)
	assert.Empty(t, g.Players)
}

func TestKickBansSession(t *testing.T) {
	g, players, mb := setupTestGame(t, 2, nil)
	target := players[1]
	mb.clear()

	assert.ErrorIs(t, g.Kick("stranger"), models.ErrUnknownPlayer)
	assert.ErrorIs(t, g.Kick(players[0].SessionID), models.ErrCantKick, "owner cannot be kicked")

	require.NoError(t, g.Kick(target.SessionID))
	assert.Nil(t, g.PlayerBySession(target.SessionID))
	assert.Contains(t, g.KickedSessions, target.SessionID)
	assert.Len(t, mb.playerEventsOfType(target.SessionID, EventKick), 1)

	_, err := g.Join(target.SessionID, "new-name")
	assert.ErrorIs(t, err, models.ErrPlayerBanned)
}

func TestLeaveDuringVotingCompletesCategory(t *testing.T) {
	g, players, _ := setupTestGame(t, 3, nil)
	p1, p2, p3 := players[0].SessionID, players[1].SessionID, players[2].SessionID
	startVotingRound(t, g, players, map[string]map[string]string{
		p1: {"ولد": "بدر", "بلد": "بغداد"},
		p2: {"ولد": "باسم", "بلد": "بيروت"},
		p3: {"ولد": "بلال", "بلد": "برلين"},
	})

	g.Vote(p1, models.Points{p2: 10, p3: 5})
	g.Vote(p2, models.Points{p1: 10, p3: 5})
	g.ConfirmVote(p1)
	g.ConfirmVote(p2)
	assert.Equal(t, 0, g.CurrentVotingCategory, "still waiting on the third voter")

	g.Leave(p3)

	assert.Equal(t, 1, g.CurrentVotingCategory, "departure closed out the category")
	assert.Equal(t, 10, players[0].TotalScore)
	assert.Equal(t, 10, players[1].TotalScore)
	rd := g.RoundData[1]
	assert.NotContains(t, rd.PlayerValues, p3)
	assert.NotContains(t, rd.Votes, p3)
}

func TestLeaveDuringWaitingCompletesSubmissions(t *testing.T) {
	g, players, _ := setupTestGame(t, 3, nil)
	p1, p2, p3 := players[0].SessionID, players[1].SessionID, players[2].SessionID
	g.beginRound("ب")
	g.StopGame(p1)

	g.SubmitValues(p1, map[string]string{"ولد": "بدر"})
	g.SubmitValues(p2, map[string]string{"ولد": "باسم"})
	assert.Equal(t, PhaseWaiting, g.Phase)

	g.Leave(p3)
	assert.Equal(t, PhaseVoting, g.Phase, "departing player was the only missing sheet")
}

func TestExpireOfflinePlayer(t *testing.T) {
	g, players, _ := setupTestGame(t, 3, nil)
	grace := time.Minute

	// An online player is never expired.
	g.ExpireOfflinePlayer(players[1].SessionID, grace)
	assert.NotNil(t, g.PlayerBySession(players[1].SessionID))

	g.Reconnect(players[1].SessionID, "socket-a")
	g.HandleDisconnect(players[1].SessionID, "socket-a")

	// Not offline long enough yet.
	g.ExpireOfflinePlayer(players[1].SessionID, grace)
	assert.NotNil(t, g.PlayerBySession(players[1].SessionID))

	players[1].OfflineAt = time.Now().Add(-2 * grace).UnixMilli()
	g.ExpireOfflinePlayer(players[1].SessionID, grace)
	assert.Nil(t, g.PlayerBySession(players[1].SessionID))
}

func TestOnlineCount(t *testing.T) {
	g, players, _ := setupTestGame(t, 3, nil)
	assert.Equal(t, 3, g.OnlineCount())
	players[2].Online = false
	assert.Equal(t, 2, g.OnlineCount())
}
