package database

import (
	"context"

	"github.com/ElyraTeam/minigames-backend/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertFeedback stores one user feedback entry.
func InsertFeedback(ctx context.Context, f models.Feedback) error {
	if !Ready() {
		return ErrNotConnected
	}
	q := `
	INSERT INTO feedback (received_at, email, game, name, message)
	VALUES (to_timestamp($1 / 1000.0), $2, $3, $4, $5)
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, f.ReceivedAt, f.Email, f.Game, f.Name, f.Message)
		return err
	})
}
