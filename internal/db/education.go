package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListEducation retrieves a candidate's education entries, most recent graduation first.
func (db *DB) ListEducation(ctx context.Context, candidateID uuid.UUID) ([]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, institution, degree, field, COALESCE(graduation_date, ''),
		        COALESCE(gpa, ''), COALESCE(honors, ''), COALESCE(location, '')
		 FROM education WHERE candidate_id = $1 ORDER BY graduation_date DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	var education []types.Education
	for rows.Next() {
		var edu types.Education
		if err := rows.Scan(&edu.ID, &edu.Institution, &edu.Degree, &edu.Field,
			&edu.GraduationDate, &edu.GPA, &edu.Honors, &edu.Location); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		education = append(education, edu)
	}
	return education, rows.Err()
}

// ReplaceEducation replaces the candidate's education entries wholesale
// inside a single transaction.
func (db *DB) ReplaceEducation(ctx context.Context, candidateID uuid.UUID, education []types.Education) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM education WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear education: %w", err)
	}

	for _, edu := range education {
		_, err := tx.Exec(ctx,
			`INSERT INTO education
			   (id, candidate_id, institution, degree, field, graduation_date, gpa, honors, location)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			edu.ID, candidateID, edu.Institution, edu.Degree, edu.Field,
			nullIfEmpty(edu.GraduationDate), nullIfEmpty(edu.GPA),
			nullIfEmpty(edu.Honors), nullIfEmpty(edu.Location),
		)
		if err != nil {
			return fmt.Errorf("failed to insert education %s: %w", edu.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to commit education: %w", err)
	}
	return nil
}
