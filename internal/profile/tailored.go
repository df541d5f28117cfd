package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListTailoredResumes retrieves the user's tailored resumes, newest first.
// Snapshots are read from storage; rows saved before snapshot persistence
// existed fall back to the current live profile, which is the best available
// reconstruction for them.
func (s *Store) ListTailoredResumes(ctx context.Context, userID uuid.UUID) ([]types.TailoredResume, error) {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.ListTailoredResumes(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	// Load the live profile only if some row needs reconstitution.
	var live *types.ResumeData
	for _, row := range rows {
		if !row.HasSnapshot {
			live, err = s.Load(ctx, userID)
			if err != nil {
				return nil, err
			}
			break
		}
	}

	resumes := make([]types.TailoredResume, 0, len(rows))
	for _, row := range rows {
		data := row.ResumeData
		if !row.HasSnapshot && live != nil {
			data = live.Clone()
		}
		resume := types.TailoredResume{
			ID:             row.ID,
			ResumeTitle:    row.ResumeTitle,
			JobTitle:       row.JobTitle,
			Company:        row.Company,
			JobDescription: row.JobDescription,
			CreatedAt:      row.CreatedAt,
			ResumeData:     data,
			MatchedSkills:  row.MatchedSkills,
		}
		// Match scores are ephemeral; restore ordering from the snapshot.
		for _, exp := range data.Experiences {
			resume.PrioritizedExperiences = append(resume.PrioritizedExperiences,
				types.ScoredExperience{Experience: exp})
		}
		resumes = append(resumes, resume)
	}
	return resumes, nil
}

// SaveTailoredResume upserts a tailored resume wholesale, scoped to the
// user's candidate.
func (s *Store) SaveTailoredResume(ctx context.Context, userID uuid.UUID, resume *types.TailoredResume) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.UpsertTailoredResume(ctx, candidateID, resume); err != nil {
		return &RemoteWriteError{Section: "tailoredResume", Err: err}
	}
	return nil
}

// DeleteTailoredResume removes a tailored resume by ID. Idempotent: deleting
// an unknown ID succeeds, and another candidate's ID deletes nothing.
func (s *Store) DeleteTailoredResume(ctx context.Context, userID, id uuid.UUID) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	return s.db.DeleteTailoredResume(ctx, candidateID, id)
}
