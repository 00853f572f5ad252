package word

import (
	"time"

	"github.com/ElyraTeam/minigames-backend/internal/models"
)

// PlayerState is a player's durable slice of a room snapshot. Unlike the
// roster broadcast it carries the auth token, so a restored process can still
// honor reconnects.
type PlayerState struct {
	SessionID      string `json:"sessionId"`
	Nickname       string `json:"nickname"`
	AuthToken      string `json:"authToken"`
	Ready          bool   `json:"ready"`
	TotalScore     int    `json:"totalScore"`
	LastRoundScore int    `json:"lastRoundScore"`
}

// RoomState is the serializable snapshot of a room, persisted best-effort
// after mutations and loaded back on process restart.
type RoomState struct {
	ID                    string                    `json:"id"`
	OwnerID               string                    `json:"ownerId"`
	Options               models.RoomOptions        `json:"options"`
	Phase                 Phase                     `json:"state"`
	CurrentRound          int                       `json:"currentRound"`
	CurrentLetter         string                    `json:"currentLetter"`
	DoneLetters           []string                  `json:"doneLetters"`
	CurrentVotingCategory int                       `json:"currentVotingCategory"`
	StoppedAt             int64                     `json:"stoppedAt"`
	CreatedAt             time.Time                 `json:"createdAt"`
	KickedSessions        []string                  `json:"kickedSessions"`
	Players               []PlayerState             `json:"players"`
	RoundData             map[int]*models.RoundData `json:"roundData"`
}

// Snapshot captures the room state for persistence. Caller holds Mu. The
// returned state shares nothing with the live room: it gets serialized on a
// goroutine after the lock is released, while the round maps keep mutating.
func (g *Game) Snapshot() RoomState {
	st := RoomState{
		ID:                    g.ID,
		OwnerID:               g.OwnerID,
		Options:               g.Options,
		Phase:                 g.Phase,
		CurrentRound:          g.CurrentRound,
		CurrentLetter:         g.CurrentLetter,
		DoneLetters:           append([]string(nil), g.DoneLetters...),
		CurrentVotingCategory: g.CurrentVotingCategory,
		StoppedAt:             g.StoppedAt,
		CreatedAt:             g.CreatedAt,
		KickedSessions:        append([]string(nil), g.KickedSessions...),
		RoundData:             make(map[int]*models.RoundData, len(g.RoundData)),
	}
	for round, rd := range g.RoundData {
		st.RoundData[round] = rd.Clone()
	}
	for _, p := range g.Players {
		st.Players = append(st.Players, PlayerState{
			SessionID:      p.SessionID,
			Nickname:       p.Nickname,
			AuthToken:      p.AuthToken,
			Ready:          p.Ready,
			TotalScore:     p.TotalScore,
			LastRoundScore: p.LastRoundScore,
		})
	}
	return st
}

// RestoreGame rebuilds a room from a persisted snapshot. Every player comes
// back offline; they re-bind a transport handle when they reconnect.
func RestoreGame(st RoomState) *Game {
	g := NewGame(st.ID, st.OwnerID, st.Options)
	g.Phase = st.Phase
	g.CurrentRound = st.CurrentRound
	g.CurrentLetter = st.CurrentLetter
	g.DoneLetters = st.DoneLetters
	g.CurrentVotingCategory = st.CurrentVotingCategory
	g.StoppedAt = st.StoppedAt
	g.CreatedAt = st.CreatedAt
	g.KickedSessions = st.KickedSessions
	if st.RoundData != nil {
		g.RoundData = st.RoundData
	}
	for _, ps := range st.Players {
		g.Players = append(g.Players, &models.Player{
			SessionID:      ps.SessionID,
			Nickname:       ps.Nickname,
			AuthToken:      ps.AuthToken,
			Ready:          ps.Ready,
			TotalScore:     ps.TotalScore,
			LastRoundScore: ps.LastRoundScore,
		})
	}
	return g
}
