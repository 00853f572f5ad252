package word

import (
	"sort"

	"github.com/ElyraTeam/minigames-backend/internal/models"
)

// RoomSyncData is the room/phase snapshot clients key all other events off.
// After any mutation it must be broadcast before the roster and before any
// voting payload, so clients never see state referencing a phase they have
// not received yet.
type RoomSyncData struct {
	ID            string `json:"id"`
	State         Phase  `json:"state"`
	OwnerID       string `json:"ownerId"`
	CurrentRound  int    `json:"currentRound"`
	CurrentLetter string `json:"currentLetter"`
	StopClicker   string `json:"stopClicker,omitempty"`
}

// PlayerSyncData is one roster row in the players broadcast.
type PlayerSyncData struct {
	ID             string `json:"id"`
	Nickname       string `json:"nickname"`
	Online         bool   `json:"online"`
	Owner          bool   `json:"owner"`
	TotalScore     int    `json:"totalScore"`
	LastRoundScore int    `json:"lastRoundScore"`
	Voted          bool   `json:"voted"`
	Ready          bool   `json:"ready"`
}

// CategoryVoteData is the payload opening a category's voting, and the one
// replayed to reconnecting clients mid-vote.
type CategoryVoteData struct {
	Category      string                   `json:"category"`
	Values        map[string]string        `json:"values"`
	Votes         map[string]models.Points `json:"votes"`
	CategoryIndex int                      `json:"categoryIndex"`
}

// GameOverEntry is one row of the final standings.
type GameOverEntry struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	TotalScore int    `json:"totalScore"`
}

func (g *Game) roomSyncData() RoomSyncData {
	var stopClicker string
	if rd := g.currentRoundData(); rd != nil {
		stopClicker = rd.StopClickerID
	}
	return RoomSyncData{
		ID:            g.ID,
		State:         g.Phase,
		OwnerID:       g.OwnerID,
		CurrentRound:  g.CurrentRound,
		CurrentLetter: g.CurrentLetter,
		StopClicker:   stopClicker,
	}
}

func (g *Game) playerSyncData() []PlayerSyncData {
	roster := make([]PlayerSyncData, 0, len(g.Players))
	for _, p := range g.Players {
		roster = append(roster, PlayerSyncData{
			ID:             p.SessionID,
			Nickname:       p.Nickname,
			Online:         p.Online,
			Owner:          p.SessionID == g.OwnerID,
			TotalScore:     p.TotalScore,
			LastRoundScore: p.LastRoundScore,
			Voted:          p.Voted,
			Ready:          p.Ready,
		})
	}
	return roster
}

// SyncRoom broadcasts the room/phase snapshot.
func (g *Game) SyncRoom() {
	g.broadcast(Event{Type: EventSync, Data: g.roomSyncData()})
}

// SyncOptions broadcasts the current room options.
func (g *Game) SyncOptions() {
	g.broadcast(Event{Type: EventOptions, Data: map[string]interface{}{
		"id":      g.ID,
		"options": g.Options,
	}})
}

// SyncPlayers broadcasts the roster.
func (g *Game) SyncPlayers() {
	g.broadcast(Event{Type: EventPlayers, Data: map[string]interface{}{
		"id":      g.ID,
		"players": g.playerSyncData(),
	}})
}

// CurrentCategoryVoteData builds the voting payload for the active category:
// every player's submitted word for it plus the pending votes so far.
func (g *Game) CurrentCategoryVoteData() CategoryVoteData {
	category := g.CurrentCategory()
	data := CategoryVoteData{
		Category:      category,
		Values:        make(map[string]string),
		Votes:         make(map[string]models.Points),
		CategoryIndex: g.CurrentVotingCategory,
	}
	rd := g.currentRoundData()
	if rd == nil {
		return data
	}
	for playerID, sheet := range rd.PlayerValues {
		data.Values[playerID] = sheet[category]
	}
	for voterID, row := range rd.ClientVotes {
		data.Votes[voterID] = row
	}
	return data
}

// TopThree returns the final standings, best score first, at most three rows.
func (g *Game) TopThree() []GameOverEntry {
	standings := make([]GameOverEntry, 0, len(g.Players))
	for _, p := range g.Players {
		standings = append(standings, GameOverEntry{
			ID:         p.SessionID,
			Nickname:   p.Nickname,
			TotalScore: p.TotalScore,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalScore > standings[j].TotalScore
	})
	if len(standings) > 3 {
		standings = standings[:3]
	}
	return standings
}

// emitGameOver sends the final standings to one player, or to everyone when
// to is empty.
func (g *Game) emitGameOver(to string) {
	ev := Event{Type: EventGameOver, Data: g.TopThree()}
	if to != "" {
		g.broadcastToPlayer(to, ev)
		return
	}
	g.broadcast(ev)
}

// ReplayPhaseTo catches a reconnecting client up on phase-specific state: the
// active voting payload mid-vote, or the final standings after game over.
func (g *Game) ReplayPhaseTo(sessionID string) {
	switch g.Phase {
	case PhaseVoting:
		rd := g.currentRoundData()
		if rd == nil {
			return
		}
		g.broadcastToPlayer(sessionID, Event{Type: EventStartVote, Data: g.CurrentCategoryVoteData()})
		g.broadcastToPlayer(sessionID, Event{Type: EventPlayerVotes, Data: rd.ClientVotes})
		g.broadcastToPlayer(sessionID, Event{Type: EventUpdateVoteCount, Data: len(rd.ConfirmedVotes)})
	case PhaseGameOver:
		g.emitGameOver(sessionID)
	}
}

// updateVoteCount broadcasts how many players have confirmed this category.
func (g *Game) updateVoteCount() {
	n := 0
	if rd := g.currentRoundData(); rd != nil {
		n = len(rd.ConfirmedVotes)
	}
	g.broadcast(Event{Type: EventUpdateVoteCount, Data: n})
}

// updatePlayerVotes broadcasts the pending (unconfirmed) vote board.
func (g *Game) updatePlayerVotes() {
	votes := map[string]models.Points{}
	if rd := g.currentRoundData(); rd != nil {
		votes = rd.ClientVotes
	}
	g.broadcast(Event{Type: EventPlayerVotes, Data: votes})
}
