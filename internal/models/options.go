package models

import "errors"

// RoomOptions configures a single word room. The owner sets these at
// creation and may update them from the lobby.
type RoomOptions struct {
	Rounds     int      `json:"rounds"`
	Letters    []string `json:"letters"`
	Categories []string `json:"categories"`
	MaxPlayers int      `json:"maxPlayers"`
	IsPrivate  bool     `json:"isPrivate"`
}

// Validate checks that the options describe a playable room. Every round
// consumes a distinct letter, so the letter pool must cover the round count.
func (o RoomOptions) Validate() error {
	if o.Rounds < 1 {
		return errors.New("rounds must be at least 1")
	}
	if len(o.Letters) == 0 {
		return errors.New("letters must not be empty")
	}
	if len(o.Categories) == 0 {
		return errors.New("categories must not be empty")
	}
	if o.MaxPlayers < 2 {
		return errors.New("maxPlayers must be at least 2")
	}
	if len(o.Letters) < o.Rounds {
		return errors.New("letters must cover the round count")
	}
	return nil
}
