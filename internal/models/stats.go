package models

// GameStats is a point-in-time count of live rooms and players for one game.
type GameStats struct {
	GameCount   int `json:"gameCount"`
	PlayerCount int `json:"playerCount"`
}
