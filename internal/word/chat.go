package word

import "github.com/ElyraTeam/minigames-backend/internal/models"

// Chat broadcasts a chat message to the room.
func (g *Game) Chat(msg models.ChatMessage) {
	g.broadcast(Event{Type: EventChat, Data: msg})
}

// PlayerChat broadcasts a plain text line from a player.
func (g *Game) PlayerChat(sessionID, text string) {
	p := g.PlayerBySession(sessionID)
	if p == nil || text == "" {
		return
	}
	g.Chat(models.NewChatMessage(models.ChatTypePlayer).
		Sender(p.Nickname).
		Text(text).
		Build())
}

// systemChat broadcasts a system announcement.
func (g *Game) systemChat(msg models.ChatMessage) {
	g.Chat(msg)
}
