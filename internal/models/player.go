package models

// Player is one participant in a word room.
//
// SessionID is the durable identity: it survives disconnects and is how every
// piece of per-player state is keyed. SocketID is the transport handle for the
// current connection and is replaced wholesale on every reconnect. AuthToken
// is the per-room secret issued by join; presenting it on the socket
// handshake proves the connection belongs to this player.
type Player struct {
	SessionID string `json:"id"`
	Nickname  string `json:"nickname"`
	AuthToken string `json:"-"`

	Online    bool   `json:"online"`
	SocketID  string `json:"-"`
	OfflineAt int64  `json:"-"`

	Ready bool `json:"ready"`
	Voted bool `json:"voted"`

	TotalScore     int `json:"totalScore"`
	LastRoundScore int `json:"lastRoundScore"`
}

// CheckAuth compares a presented room token against the player's own.
func (p *Player) CheckAuth(token string) bool {
	return p.AuthToken != "" && p.AuthToken == token
}
