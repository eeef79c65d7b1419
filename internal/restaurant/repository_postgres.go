package restaurant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Record a fetched restaurant document
// --------------------------------------------------
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}

	query := `
		INSERT INTO restaurant_snapshots (
			id,
			phone,
			restaurant_id,
			restaurant_name,
			raw,
			normalized
		)
		VALUES ($1, $2, $3, $4, COALESCE($5::jsonb, '{}'::jsonb), COALESCE($6::jsonb, '{}'::jsonb))
		RETURNING fetched_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		snap.ID,
		snap.Phone,
		snap.RestaurantID,
		snap.RestaurantName,
		nullableJSON(snap.Raw),
		nullableJSON(snap.Normalized),
	).Scan(&snap.FetchedAt)
}

// --------------------------------------------------
// Latest snapshot for a phone number
// --------------------------------------------------
func (r *PostgresRepository) LatestSnapshot(ctx context.Context, phone string) (*Snapshot, error) {
	var snap Snapshot
	err := r.db.QueryRow(ctx, `
		SELECT
			id,
			phone,
			restaurant_id,
			restaurant_name,
			raw,
			normalized,
			fetched_at
		FROM restaurant_snapshots
		WHERE phone = $1
		ORDER BY fetched_at DESC
		LIMIT 1
	`, phone).Scan(
		&snap.ID,
		&snap.Phone,
		&snap.RestaurantID,
		&snap.RestaurantName,
		&snap.Raw,
		&snap.Normalized,
		&snap.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// --------------------------------------------------
// Snapshot history (metadata only, newest first)
// --------------------------------------------------
func (r *PostgresRepository) ListSnapshots(
	ctx context.Context,
	phone string,
	limit int,
) ([]*Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			phone,
			restaurant_id,
			restaurant_name,
			fetched_at
		FROM restaurant_snapshots
		WHERE phone = $1
		ORDER BY fetched_at DESC
		LIMIT $2
	`, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(
			&snap.ID,
			&snap.Phone,
			&snap.RestaurantID,
			&snap.RestaurantName,
			&snap.FetchedAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &snap)
	}

	return snapshots, rows.Err()
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
