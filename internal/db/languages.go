package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListLanguages retrieves a candidate's languages ordered by name.
func (db *DB) ListLanguages(ctx context.Context, candidateID uuid.UUID) ([]types.Language, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(proficiency, '')
		 FROM languages WHERE candidate_id = $1 ORDER BY name`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	defer rows.Close()

	var languages []types.Language
	for rows.Next() {
		var l types.Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// ReplaceLanguages replaces the candidate's languages wholesale inside a single transaction.
func (db *DB) ReplaceLanguages(ctx context.Context, candidateID uuid.UUID, languages []types.Language) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM languages WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear languages: %w", err)
	}

	for _, l := range languages {
		_, err := tx.Exec(ctx,
			`INSERT INTO languages (id, candidate_id, name, proficiency)
			 VALUES ($1, $2, $3, $4)`,
			l.ID, candidateID, l.Name, l.Proficiency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert language %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to commit languages: %w", err)
	}
	return nil
}
