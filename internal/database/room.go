package database

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

// UpsertRoom writes a room snapshot as JSONB. Called fire-and-forget after
// mutations; the in-memory room stays authoritative whether or not this
// lands.
func UpsertRoom(ctx context.Context, roomID string, state interface{}) error {
	if !Ready() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	q := `
	INSERT INTO rooms (id, state, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (id)
	DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, roomID, payload)
		return err
	})
}

// LoadRooms returns every persisted room snapshot keyed by room id, for
// restart recovery.
func LoadRooms(ctx context.Context) (map[string][]byte, error) {
	if !Ready() {
		return nil, ErrNotConnected
	}
	rows, err := DB.Query(ctx, `SELECT id, state FROM rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make(map[string][]byte)
	for rows.Next() {
		var id string
		var state []byte
		if err := rows.Scan(&id, &state); err != nil {
			return nil, err
		}
		snapshots[id] = state
	}
	return snapshots, rows.Err()
}

// DeleteRoom drops a room's snapshot once the room dies.
func DeleteRoom(ctx context.Context, roomID string) error {
	if !Ready() {
		return ErrNotConnected
	}
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
		return err
	})
}
