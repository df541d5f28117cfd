package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListSkills retrieves a candidate's skills ordered by category.
func (db *DB) ListSkills(ctx context.Context, candidateID uuid.UUID) ([]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(category, ''), COALESCE(level, '')
		 FROM skills WHERE candidate_id = $1 ORDER BY category, name`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []types.Skill
	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// ReplaceSkills replaces the candidate's skills wholesale inside a single transaction.
func (db *DB) ReplaceSkills(ctx context.Context, candidateID uuid.UUID, skills []types.Skill) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM skills WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear skills: %w", err)
	}

	for _, s := range skills {
		_, err := tx.Exec(ctx,
			`INSERT INTO skills (id, candidate_id, name, category, level)
			 VALUES ($1, $2, $3, $4, $5)`,
			s.ID, candidateID, s.Name, s.Category, s.Level,
		)
		if err != nil {
			return fmt.Errorf("failed to insert skill %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to commit skills: %w", err)
	}
	return nil
}
