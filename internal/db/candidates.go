package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

// EnsureCandidate provisions the candidates row for a user if it does not
// exist and returns its ID. The ON CONFLICT upsert makes concurrent first-time
// calls safe: the unique constraint on user_id guarantees a single row and the
// no-op update lets RETURNING yield the existing ID.
func (db *DB) EnsureCandidate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = candidates.user_id
		 RETURNING id`,
		userID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to ensure candidate: %w", err)
	}
	return id, nil
}

// GetPersonalInfo retrieves a candidate's personal info by candidate ID.
// Returns nil if the row does not exist.
func (db *DB) GetPersonalInfo(ctx context.Context, candidateID uuid.UUID) (*types.PersonalInfo, error) {
	var info types.PersonalInfo
	var portfolio *string
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		        COALESCE(location, ''), portfolio, COALESCE(summary, '')
		 FROM candidates WHERE id = $1`,
		candidateID,
	).Scan(&info.FullName, &info.Email, &info.Phone, &info.Location, &portfolio, &info.Summary)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get personal info: %w", err)
	}
	if portfolio != nil {
		info.Portfolio = *portfolio
	}
	return &info, nil
}

// UpdatePersonalInfo field-updates the candidate's personal info.
func (db *DB) UpdatePersonalInfo(ctx context.Context, candidateID uuid.UUID, info *types.PersonalInfo) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE candidates
		 SET full_name = $1, email = $2, phone = $3, location = $4,
		     portfolio = $5, summary = $6, updated_at = NOW()
		 WHERE id = $7`,
		info.FullName, info.Email, info.Phone, info.Location,
		nullIfEmpty(info.Portfolio), info.Summary, candidateID,
	)
	if err != nil {
		return fmt.Errorf("failed to update personal info: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", candidateID)
	}
	return nil
}
