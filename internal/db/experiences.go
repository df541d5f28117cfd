package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListExperiences retrieves a candidate's experiences, most recent start date first.
func (db *DB) ListExperiences(ctx context.Context, candidateID uuid.UUID) ([]types.Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company, position, COALESCE(start_date, ''), COALESCE(end_date, ''),
		        current, COALESCE(description, ''), achievements, skills, COALESCE(location, '')
		 FROM experiences WHERE candidate_id = $1 ORDER BY start_date DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var experiences []types.Experience
	for rows.Next() {
		var exp types.Experience
		var achievements, skills StringArray
		if err := rows.Scan(&exp.ID, &exp.Company, &exp.Position, &exp.StartDate, &exp.EndDate,
			&exp.Current, &exp.Description, &achievements, &skills, &exp.Location); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		exp.Achievements = achievements
		exp.Skills = skills
		experiences = append(experiences, exp)
	}
	return experiences, rows.Err()
}

// ReplaceExperiences replaces the candidate's experiences wholesale.
// Delete-then-insert runs inside a single transaction so a partial failure
// never leaves the collection half-written.
func (db *DB) ReplaceExperiences(ctx context.Context, candidateID uuid.UUID, experiences []types.Experience) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM experiences WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear experiences: %w", err)
	}

	for _, exp := range experiences {
		endDate := exp.EndDate
		if exp.Current {
			// A current role has no end date
			endDate = ""
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO experiences
			   (id, candidate_id, company, position, start_date, end_date, current,
			    description, achievements, skills, location)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			exp.ID, candidateID, exp.Company, exp.Position,
			nullIfEmpty(exp.StartDate), nullIfEmpty(endDate), exp.Current,
			exp.Description, StringArray(exp.Achievements), StringArray(exp.Skills),
			nullIfEmpty(exp.Location),
		)
		if err != nil {
			return fmt.Errorf("failed to insert experience %s: %w", exp.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to commit experiences: %w", err)
	}
	return nil
}
