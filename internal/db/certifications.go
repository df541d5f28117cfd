package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListCertifications retrieves a candidate's certifications, newest first.
func (db *DB) ListCertifications(ctx context.Context, candidateID uuid.UUID) ([]types.Certification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, issuer, COALESCE(date, ''),
		        COALESCE(expiry_date, ''), COALESCE(credential_id, '')
		 FROM certifications WHERE candidate_id = $1 ORDER BY date DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	var certifications []types.Certification
	for rows.Next() {
		var c types.Certification
		if err := rows.Scan(&c.ID, &c.Name, &c.Issuer, &c.Date, &c.ExpiryDate, &c.CredentialID); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		certifications = append(certifications, c)
	}
	return certifications, rows.Err()
}

// ReplaceCertifications replaces the candidate's certifications wholesale
// inside a single transaction.
func (db *DB) ReplaceCertifications(ctx context.Context, candidateID uuid.UUID, certifications []types.Certification) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM certifications WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear certifications: %w", err)
	}

	for _, c := range certifications {
		_, err := tx.Exec(ctx,
			`INSERT INTO certifications (id, candidate_id, name, issuer, date, expiry_date, credential_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, candidateID, c.Name, c.Issuer,
			nullIfEmpty(c.Date), nullIfEmpty(c.ExpiryDate), nullIfEmpty(c.CredentialID),
		)
		if err != nil {
			return fmt.Errorf("failed to insert certification %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to commit certifications: %w", err)
	}
	return nil
}
