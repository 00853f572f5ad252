// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ElyraTeam/minigames-backend/internal/auth"
	"github.com/ElyraTeam/minigames-backend/internal/cache"
	"github.com/ElyraTeam/minigames-backend/internal/database"
	"github.com/ElyraTeam/minigames-backend/internal/game"
	"github.com/ElyraTeam/minigames-backend/internal/handlers"
	"github.com/ElyraTeam/minigames-backend/internal/models"
	"github.com/ElyraTeam/minigames-backend/internal/word"
)

func main() {
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func serve(ctx context.Context, cfg *Config) error {
	logger := logrus.New()
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	auth.Init()

	if !cfg.noDatabase {
		if err := database.ConnectDB(ctx); err != nil {
			logger.Warnf("running without snapshot cache: %v", err)
		}
	}
	if !cfg.noRedis {
		if err := cache.ConnectRedis(); err != nil {
			logger.Warnf("running without event queue: %v", err)
		}
	}

	gs := handlers.NewGameServer(logger)
	gs.PlayerTimeout = cfg.playerTimeout

	game.Register(game.Descriptor{
		ID:   game.Word,
		Name: "Word",
		Stats: func() models.GameStats {
			games, players := gs.Store.Counts()
			return models.GameStats{GameCount: games, PlayerCount: players}
		},
	})

	restoreRooms(ctx, logger, gs)

	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	logger.Infof("Running on %s", addr)
	return http.ListenAndServe(addr, gs.RegisterRoutes())
}

// restoreRooms reloads persisted room snapshots so players can reconnect
// after a process restart. Every restored player starts offline.
func restoreRooms(ctx context.Context, logger *logrus.Logger, gs *handlers.GameServer) {
	if !database.Ready() {
		return
	}
	snapshots, err := database.LoadRooms(ctx)
	if err != nil {
		logger.Warnf("failed to load room snapshots: %v", err)
		return
	}
	for roomID, raw := range snapshots {
		var st word.RoomState
		if err := json.Unmarshal(raw, &st); err != nil {
			logger.WithField("room", roomID).Warnf("discarding corrupt snapshot: %v", err)
			continue
		}
		g := word.RestoreGame(st)
		gs.AttachRoom(g)
		gs.Store.AddGame(g)
	}
	if len(snapshots) > 0 {
		logger.Infof("restored %d room(s) from snapshot cache", len(snapshots))
	}
}
