package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListTailoredResumes retrieves a candidate's tailored resumes, newest first.
// The profile snapshot is restored from the stored JSONB column; rows written
// before snapshots were persisted have HasSnapshot=false and an empty
// ResumeData that the caller reconstitutes from the live profile.
func (db *DB) ListTailoredResumes(ctx context.Context, candidateID uuid.UUID) ([]TailoredResumeRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(resume_title, ''), COALESCE(job_title, ''), COALESCE(company, ''),
		        COALESCE(job_description, ''), matched_skills, resume_data, created_at
		 FROM tailored_resumes WHERE candidate_id = $1 ORDER BY created_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tailored resumes: %w", err)
	}
	defer rows.Close()

	var resumes []TailoredResumeRow
	for rows.Next() {
		var row TailoredResumeRow
		var matched StringArray
		var snapshot []byte
		if err := rows.Scan(&row.ID, &row.ResumeTitle, &row.JobTitle, &row.Company,
			&row.JobDescription, &matched, &snapshot, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tailored resume: %w", err)
		}
		row.MatchedSkills = matched
		if len(snapshot) > 0 {
			if err := json.Unmarshal(snapshot, &row.ResumeData); err != nil {
				return nil, fmt.Errorf("failed to decode resume snapshot %s: %w", row.ID, err)
			}
			row.HasSnapshot = true
		}
		resumes = append(resumes, row)
	}
	return resumes, rows.Err()
}

// UpsertTailoredResume saves a tailored resume wholesale, keyed by its ID.
// The full profile snapshot is persisted so the saved resume stays a
// point-in-time copy across reloads.
func (db *DB) UpsertTailoredResume(ctx context.Context, candidateID uuid.UUID, resume *types.TailoredResume) error {
	snapshot, err := json.Marshal(resume.ResumeData)
	if err != nil {
		return fmt.Errorf("failed to encode resume snapshot: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO tailored_resumes
		   (id, candidate_id, resume_title, job_title, company, job_description,
		    matched_skills, resume_data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     resume_title = $3,
		     job_title = $4,
		     company = $5,
		     job_description = $6,
		     matched_skills = $7,
		     resume_data = $8,
		     updated_at = NOW()
		 WHERE tailored_resumes.candidate_id = $2`,
		resume.ID, candidateID, resume.ResumeTitle, resume.JobTitle,
		nullIfEmpty(resume.Company), resume.JobDescription,
		StringArray(resume.MatchedSkills), snapshot, resume.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save tailored resume %s: %w", resume.ID, err)
	}
	return nil
}

// DeleteTailoredResume removes a tailored resume by ID, scoped to the owning
// candidate. Deleting an ID that does not exist is not an error.
func (db *DB) DeleteTailoredResume(ctx context.Context, candidateID, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM tailored_resumes WHERE id = $1 AND candidate_id = $2`,
		id, candidateID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete tailored resume %s: %w", id, err)
	}
	return nil
}

// TailoredResumeRow is a tailored resume as stored, before snapshot
// reconstitution for legacy rows.
type TailoredResumeRow struct {
	ID             uuid.UUID
	ResumeTitle    string
	JobTitle       string
	Company        string
	JobDescription string
	MatchedSkills  []string
	ResumeData     types.ResumeData
	HasSnapshot    bool
	CreatedAt      time.Time
}
