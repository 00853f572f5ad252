package word

import (
	"time"

	"github.com/ElyraTeam/minigames-backend/internal/models"
	"github.com/google/uuid"
)

// PlayerBySession finds a player by durable identity.
func (g *Game) PlayerBySession(sessionID string) *models.Player {
	for _, p := range g.Players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

// PlayerByNickname finds a player by display name.
func (g *Game) PlayerByNickname(nickname string) *models.Player {
	for _, p := range g.Players {
		if p.Nickname == nickname {
			return p
		}
	}
	return nil
}

// IsFull reports whether the roster has reached the configured cap.
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.Options.MaxPlayers
}

// OnlineCount returns how many players currently hold a live connection.
func (g *Game) OnlineCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Online {
			n++
		}
	}
	return n
}

// Join admits a player to the room, or refreshes the auth token of a player
// who already belongs to it. A known durable identity may rejoin in any
// phase; a brand-new player is only admitted to a lobby with space.
func (g *Game) Join(sessionID, nickname string) (*models.Player, error) {
	if containsString(g.KickedSessions, sessionID) {
		return nil, models.ErrPlayerBanned
	}

	if existing := g.PlayerBySession(sessionID); existing != nil {
		existing.AuthToken = uuid.NewString()
		return existing, nil
	}

	if other := g.PlayerByNickname(nickname); other != nil {
		return nil, models.ErrNicknameInUse
	}
	if g.Phase != PhaseLobby {
		return nil, models.ErrGameRunning
	}
	if g.IsFull() {
		return nil, models.ErrRoomFull
	}

	p := &models.Player{
		SessionID: sessionID,
		Nickname:  nickname,
		AuthToken: uuid.NewString(),
	}
	if len(g.Players) == 0 {
		g.OwnerID = sessionID
		p.Ready = true
	}
	g.Players = append(g.Players, p)
	g.logAction(sessionID, "player_join", map[string]interface{}{"nickname": nickname})
	return p, nil
}

// Reconnect binds a fresh transport handle to an existing player.
func (g *Game) Reconnect(sessionID, socketID string) *models.Player {
	p := g.PlayerBySession(sessionID)
	if p == nil {
		return nil
	}
	p.Online = true
	p.SocketID = socketID
	p.OfflineAt = 0
	return p
}

// HandleDisconnect marks a player offline after transport loss. The player
// entity is retained so the same identity can pick the game back up later.
func (g *Game) HandleDisconnect(sessionID, socketID string) {
	p := g.PlayerBySession(sessionID)
	if p == nil || p.SocketID != socketID {
		return
	}
	p.Online = false
	p.SocketID = ""
	p.OfflineAt = time.Now().UnixMilli()

	g.SyncPlayers()
	g.save()
}

// Leave removes a player at their own request.
func (g *Game) Leave(sessionID string) {
	p := g.PlayerBySession(sessionID)
	if p == nil {
		return
	}
	nickname := p.Nickname
	g.removePlayer(sessionID)
	g.logAction(sessionID, "player_leave", nil)

	if len(g.Players) > 0 {
		g.systemChat(models.NewChatMessage(models.ChatTypeSystem).
			Text("غادر ").
			Bold(nickname).
			Text(".").
			Build())
		g.SyncRoom()
		g.SyncPlayers()
	}
	g.save()
}

// Kick bans a player's durable identity and removes them. Permission checks
// live with the caller; the target only has to exist and not be the owner.
func (g *Game) Kick(targetID string) error {
	target := g.PlayerBySession(targetID)
	if target == nil {
		return models.ErrUnknownPlayer
	}
	if targetID == g.OwnerID {
		return models.ErrCantKick
	}

	g.KickedSessions = append(g.KickedSessions, targetID)
	nickname := target.Nickname
	g.broadcastToPlayer(targetID, Event{Type: EventKick, Data: "تم طردك من الغرفة."})
	g.removePlayer(targetID)
	g.logAction(targetID, "player_kick", nil)

	if len(g.Players) > 0 {
		g.systemChat(models.NewChatMessage(models.ChatTypeSystem).
			Text("تم طرد ").
			Bold(nickname).
			Text(".").
			Build())
		g.SyncRoom()
		g.SyncPlayers()
	}
	g.save()
	return nil
}

// ExpireOfflinePlayer removes a player who has stayed offline past the given
// grace period. Used by the optional inactivity kick; a player who came back
// in the meantime is left alone.
func (g *Game) ExpireOfflinePlayer(sessionID string, grace time.Duration) {
	p := g.PlayerBySession(sessionID)
	if p == nil || p.Online || p.OfflineAt == 0 {
		return
	}
	if time.Now().UnixMilli()-p.OfflineAt < grace.Milliseconds() {
		return
	}
	nickname := p.Nickname
	g.removePlayer(sessionID)
	g.logAction(sessionID, "player_expired", nil)

	if len(g.Players) > 0 {
		g.systemChat(models.NewChatMessage(models.ChatTypeSystem).
			Text("تم طرد ").
			Bold(nickname).
			Text(" لعدم النشاط.").
			Build())
		g.SyncRoom()
		g.SyncPlayers()
	}
	g.save()
}

// removePlayer purges a departing player from the roster and the active
// round, hands off ownership if needed, and re-checks voting completion:
// removing the last unconfirmed voter can close out the category.
func (g *Game) removePlayer(sessionID string) {
	p := g.PlayerBySession(sessionID)
	if p == nil {
		return
	}

	if rd := g.currentRoundData(); rd != nil {
		delete(rd.ClientVotes, sessionID)
		delete(rd.Votes, sessionID)
		delete(rd.PlayerValues, sessionID)
		for i, id := range rd.ConfirmedVotes {
			if id == sessionID {
				rd.ConfirmedVotes = append(rd.ConfirmedVotes[:i], rd.ConfirmedVotes[i+1:]...)
				break
			}
		}
		for _, ballots := range rd.Votes {
			for _, voters := range ballots {
				delete(voters, sessionID)
			}
		}
	}

	for i, q := range g.Players {
		if q.SessionID == sessionID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			break
		}
	}

	if len(g.Players) == 0 {
		if g.OnEmpty != nil {
			g.OnEmpty(g.ID)
		}
		return
	}

	if sessionID == g.OwnerID {
		newOwner := g.Players[0]
		g.OwnerID = newOwner.SessionID
		newOwner.Ready = true
		g.systemChat(models.NewChatMessage(models.ChatTypeSystem).
			Text("اصبح ").
			Bold(newOwner.Nickname).
			Text(" المسؤول.").
			Build())
	}

	if g.Phase == PhaseVoting {
		g.updateVoteCount()
		g.updatePlayerVotes()
		g.broadcast(Event{Type: EventStartVote, Data: g.CurrentCategoryVoteData()})
		g.checkEveryoneVoted()
	} else if g.Phase == PhaseWaiting {
		g.maybeBeginVoting()
	}
}
