package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Section names used in save results and error messages.
const (
	SectionPersonalInfo   = "personalInfo"
	SectionExperiences    = "experiences"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"
	SectionLanguages      = "languages"
)

// DBClient is the database surface the store depends on.
// *db.DB satisfies it; tests substitute fakes.
type DBClient interface {
	EnsureCandidate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	GetPersonalInfo(ctx context.Context, candidateID uuid.UUID) (*types.PersonalInfo, error)
	UpdatePersonalInfo(ctx context.Context, candidateID uuid.UUID, info *types.PersonalInfo) error
	ListExperiences(ctx context.Context, candidateID uuid.UUID) ([]types.Experience, error)
	ReplaceExperiences(ctx context.Context, candidateID uuid.UUID, experiences []types.Experience) error
	ListEducation(ctx context.Context, candidateID uuid.UUID) ([]types.Education, error)
	ReplaceEducation(ctx context.Context, candidateID uuid.UUID, education []types.Education) error
	ListSkills(ctx context.Context, candidateID uuid.UUID) ([]types.Skill, error)
	ReplaceSkills(ctx context.Context, candidateID uuid.UUID, skills []types.Skill) error
	ListCertifications(ctx context.Context, candidateID uuid.UUID) ([]types.Certification, error)
	ReplaceCertifications(ctx context.Context, candidateID uuid.UUID, certifications []types.Certification) error
	ListLanguages(ctx context.Context, candidateID uuid.UUID) ([]types.Language, error)
	ReplaceLanguages(ctx context.Context, candidateID uuid.UUID, languages []types.Language) error
	ListTailoredResumes(ctx context.Context, candidateID uuid.UUID) ([]db.TailoredResumeRow, error)
	UpsertTailoredResume(ctx context.Context, candidateID uuid.UUID, resume *types.TailoredResume) error
	DeleteTailoredResume(ctx context.Context, candidateID, id uuid.UUID) error
}

// Store provides load/save operations for candidate profiles, keyed by the
// signed-in identity. Candidate IDs are cached per identity so repeat calls
// skip the provisioning round-trip; the cache is session-scoped with an
// explicit ClearOnSignOut lifecycle rather than a process-wide global.
type Store struct {
	db DBClient

	mu         sync.RWMutex
	candidates map[uuid.UUID]uuid.UUID // user ID -> candidate ID
}

// NewStore creates a profile store backed by the given database client.
func NewStore(database DBClient) *Store {
	return &Store{
		db:         database,
		candidates: make(map[uuid.UUID]uuid.UUID),
	}
}

// EnsureCandidate returns the candidate ID for a user, provisioning an empty
// profile on first access. Idempotent: concurrent first-time calls resolve to
// the same row via the database upsert, never a duplicate.
func (s *Store) EnsureCandidate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, ErrNotAuthenticated
	}

	s.mu.RLock()
	id, ok := s.candidates[userID]
	s.mu.RUnlock()
	if ok {
		return id, nil
	}

	id, err := s.db.EnsureCandidate(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to provision candidate: %w", err)
	}

	s.mu.Lock()
	s.candidates[userID] = id
	s.mu.Unlock()
	return id, nil
}

// ClearOnSignOut drops the cached candidate ID for a user. Call when the
// identity provider reports a sign-out so a later sign-in re-provisions.
func (s *Store) ClearOnSignOut(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.candidates, userID)
	s.mu.Unlock()
}

// Load fetches the full profile: personal info plus the five child
// collections, all in parallel.
func (s *Store) Load(ctx context.Context, userID uuid.UUID) (*types.ResumeData, error) {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var data types.ResumeData
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		info, err := s.db.GetPersonalInfo(gCtx, candidateID)
		if err != nil {
			return err
		}
		if info == nil {
			return &ErrProfileNotFound{CandidateID: candidateID}
		}
		data.PersonalInfo = *info
		return nil
	})
	g.Go(func() error {
		experiences, err := s.db.ListExperiences(gCtx, candidateID)
		if err != nil {
			return err
		}
		data.Experiences = experiences
		return nil
	})
	g.Go(func() error {
		education, err := s.db.ListEducation(gCtx, candidateID)
		if err != nil {
			return err
		}
		data.Education = education
		return nil
	})
	g.Go(func() error {
		skills, err := s.db.ListSkills(gCtx, candidateID)
		if err != nil {
			return err
		}
		data.Skills = skills
		return nil
	})
	g.Go(func() error {
		certifications, err := s.db.ListCertifications(gCtx, candidateID)
		if err != nil {
			return err
		}
		data.Certifications = certifications
		return nil
	})
	g.Go(func() error {
		languages, err := s.db.ListLanguages(gCtx, candidateID)
		if err != nil {
			return err
		}
		data.Languages = languages
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// SavePersonalInfo field-updates the candidate's personal info.
func (s *Store) SavePersonalInfo(ctx context.Context, userID uuid.UUID, info *types.PersonalInfo) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.UpdatePersonalInfo(ctx, candidateID, info); err != nil {
		return &RemoteWriteError{Section: SectionPersonalInfo, Err: err}
	}
	return nil
}

// SaveExperiences replaces the experiences collection wholesale.
func (s *Store) SaveExperiences(ctx context.Context, userID uuid.UUID, experiences []types.Experience) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.ReplaceExperiences(ctx, candidateID, experiences); err != nil {
		return &RemoteWriteError{Section: SectionExperiences, Err: err}
	}
	return nil
}

// SaveEducation replaces the education collection wholesale.
func (s *Store) SaveEducation(ctx context.Context, userID uuid.UUID, education []types.Education) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.ReplaceEducation(ctx, candidateID, education); err != nil {
		return &RemoteWriteError{Section: SectionEducation, Err: err}
	}
	return nil
}

// SaveSkills replaces the skills collection wholesale.
func (s *Store) SaveSkills(ctx context.Context, userID uuid.UUID, skills []types.Skill) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.ReplaceSkills(ctx, candidateID, skills); err != nil {
		return &RemoteWriteError{Section: SectionSkills, Err: err}
	}
	return nil
}

// SaveCertifications replaces the certifications collection wholesale.
func (s *Store) SaveCertifications(ctx context.Context, userID uuid.UUID, certifications []types.Certification) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.ReplaceCertifications(ctx, candidateID, certifications); err != nil {
		return &RemoteWriteError{Section: SectionCertifications, Err: err}
	}
	return nil
}

// SaveLanguages replaces the languages collection wholesale.
func (s *Store) SaveLanguages(ctx context.Context, userID uuid.UUID, languages []types.Language) error {
	candidateID, err := s.EnsureCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.ReplaceLanguages(ctx, candidateID, languages); err != nil {
		return &RemoteWriteError{Section: SectionLanguages, Err: err}
	}
	return nil
}

// SectionResult reports the outcome of one section within a multi-section save.
type SectionResult struct {
	Section string `json:"section"`
	Err     error  `json:"-"`
}

// SaveAll saves every profile section, best effort. Sections are independent:
// a failed section does not stop the rest, and the result slice reports each
// outcome so partial failure is visible rather than silent. Multi-section
// saves are NOT atomic across sections; each collection is atomic on its own.
func (s *Store) SaveAll(ctx context.Context, userID uuid.UUID, data *types.ResumeData) []SectionResult {
	results := []SectionResult{
		{Section: SectionPersonalInfo, Err: s.SavePersonalInfo(ctx, userID, &data.PersonalInfo)},
		{Section: SectionExperiences, Err: s.SaveExperiences(ctx, userID, data.Experiences)},
		{Section: SectionEducation, Err: s.SaveEducation(ctx, userID, data.Education)},
		{Section: SectionSkills, Err: s.SaveSkills(ctx, userID, data.Skills)},
		{Section: SectionCertifications, Err: s.SaveCertifications(ctx, userID, data.Certifications)},
		{Section: SectionLanguages, Err: s.SaveLanguages(ctx, userID, data.Languages)},
	}
	return results
}
