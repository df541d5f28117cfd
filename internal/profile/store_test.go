package profile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/types"
)

// fakeDB implements DBClient in memory for store tests.
type fakeDB struct {
	mu sync.Mutex

	candidates map[uuid.UUID]uuid.UUID // user ID -> candidate ID
	ensures    atomic.Int32

	info           map[uuid.UUID]*types.PersonalInfo
	experiences    map[uuid.UUID][]types.Experience
	education      map[uuid.UUID][]types.Education
	skills         map[uuid.UUID][]types.Skill
	certifications map[uuid.UUID][]types.Certification
	languages      map[uuid.UUID][]types.Language
	resumes        map[uuid.UUID][]db.TailoredResumeRow

	failSection map[string]error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		candidates:     make(map[uuid.UUID]uuid.UUID),
		info:           make(map[uuid.UUID]*types.PersonalInfo),
		experiences:    make(map[uuid.UUID][]types.Experience),
		education:      make(map[uuid.UUID][]types.Education),
		skills:         make(map[uuid.UUID][]types.Skill),
		certifications: make(map[uuid.UUID][]types.Certification),
		languages:      make(map[uuid.UUID][]types.Language),
		resumes:        make(map[uuid.UUID][]db.TailoredResumeRow),
		failSection:    make(map[string]error),
	}
}

func (f *fakeDB) EnsureCandidate(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	f.ensures.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.candidates[userID]; ok {
		return id, nil
	}
	id := uuid.New()
	f.candidates[userID] = id
	f.info[id] = &types.PersonalInfo{}
	return id, nil
}

func (f *fakeDB) GetPersonalInfo(_ context.Context, candidateID uuid.UUID) (*types.PersonalInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.info[candidateID]
	if !ok {
		return nil, nil
	}
	out := *info
	return &out, nil
}

func (f *fakeDB) UpdatePersonalInfo(_ context.Context, candidateID uuid.UUID, info *types.PersonalInfo) error {
	if err := f.failSection[SectionPersonalInfo]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *info
	f.info[candidateID] = &out
	return nil
}

func (f *fakeDB) ListExperiences(_ context.Context, candidateID uuid.UUID) ([]types.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.experiences[candidateID], nil
}

func (f *fakeDB) ReplaceExperiences(_ context.Context, candidateID uuid.UUID, experiences []types.Experience) error {
	if err := f.failSection[SectionExperiences]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.experiences[candidateID] = experiences
	return nil
}

func (f *fakeDB) ListEducation(_ context.Context, candidateID uuid.UUID) ([]types.Education, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.education[candidateID], nil
}

func (f *fakeDB) ReplaceEducation(_ context.Context, candidateID uuid.UUID, education []types.Education) error {
	if err := f.failSection[SectionEducation]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.education[candidateID] = education
	return nil
}

func (f *fakeDB) ListSkills(_ context.Context, candidateID uuid.UUID) ([]types.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skills[candidateID], nil
}

func (f *fakeDB) ReplaceSkills(_ context.Context, candidateID uuid.UUID, skills []types.Skill) error {
	if err := f.failSection[SectionSkills]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skills[candidateID] = skills
	return nil
}

func (f *fakeDB) ListCertifications(_ context.Context, candidateID uuid.UUID) ([]types.Certification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.certifications[candidateID], nil
}

func (f *fakeDB) ReplaceCertifications(_ context.Context, candidateID uuid.UUID, certifications []types.Certification) error {
	if err := f.failSection[SectionCertifications]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.certifications[candidateID] = certifications
	return nil
}

func (f *fakeDB) ListLanguages(_ context.Context, candidateID uuid.UUID) ([]types.Language, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.languages[candidateID], nil
}

func (f *fakeDB) ReplaceLanguages(_ context.Context, candidateID uuid.UUID, languages []types.Language) error {
	if err := f.failSection[SectionLanguages]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.languages[candidateID] = languages
	return nil
}

func (f *fakeDB) ListTailoredResumes(_ context.Context, candidateID uuid.UUID) ([]db.TailoredResumeRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resumes[candidateID], nil
}

func (f *fakeDB) UpsertTailoredResume(_ context.Context, candidateID uuid.UUID, resume *types.TailoredResume) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := db.TailoredResumeRow{
		ID:             resume.ID,
		ResumeTitle:    resume.ResumeTitle,
		JobTitle:       resume.JobTitle,
		Company:        resume.Company,
		JobDescription: resume.JobDescription,
		MatchedSkills:  resume.MatchedSkills,
		ResumeData:     resume.ResumeData.Clone(),
		HasSnapshot:    true,
		CreatedAt:      resume.CreatedAt,
	}
	for i, existing := range f.resumes[candidateID] {
		if existing.ID == row.ID {
			f.resumes[candidateID][i] = row
			return nil
		}
	}
	f.resumes[candidateID] = append(f.resumes[candidateID], row)
	return nil
}

func (f *fakeDB) DeleteTailoredResume(_ context.Context, candidateID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.resumes[candidateID]
	for i, row := range rows {
		if row.ID == id {
			f.resumes[candidateID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestEnsureCandidate_RequiresIdentity(t *testing.T) {
	store := NewStore(newFakeDB())

	_, err := store.EnsureCandidate(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestEnsureCandidate_CachesAcrossCalls(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	first, err := store.EnsureCandidate(context.Background(), userID)
	require.NoError(t, err)
	second, err := store.EnsureCandidate(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), database.ensures.Load(), "second call should hit the cache")
}

func TestEnsureCandidate_ConcurrentFirstAccess(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	const workers = 16
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = store.EnsureCandidate(context.Background(), userID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// The upsert makes concurrent provisioning converge on one row.
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestClearOnSignOut_ForcesReprovision(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	_, err := store.EnsureCandidate(context.Background(), userID)
	require.NoError(t, err)
	store.ClearOnSignOut(userID)
	_, err = store.EnsureCandidate(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int32(2), database.ensures.Load())
}

func TestLoad_AssemblesAllSections(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	candidateID, err := store.EnsureCandidate(context.Background(), userID)
	require.NoError(t, err)

	database.info[candidateID] = &types.PersonalInfo{FullName: "Jane Doe", Summary: "Engineer."}
	database.experiences[candidateID] = []types.Experience{{ID: uuid.New(), Company: "Acme"}}
	database.education[candidateID] = []types.Education{{ID: uuid.New(), Institution: "State U"}}
	database.skills[candidateID] = []types.Skill{{ID: uuid.New(), Name: "Go"}}
	database.certifications[candidateID] = []types.Certification{{ID: uuid.New(), Name: "CKA"}}
	database.languages[candidateID] = []types.Language{{ID: uuid.New(), Name: "Spanish"}}

	data, err := store.Load(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", data.PersonalInfo.FullName)
	assert.Len(t, data.Experiences, 1)
	assert.Len(t, data.Education, 1)
	assert.Len(t, data.Skills, 1)
	assert.Len(t, data.Certifications, 1)
	assert.Len(t, data.Languages, 1)
}

func TestLoad_MissingProfile(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	candidateID, err := store.EnsureCandidate(context.Background(), userID)
	require.NoError(t, err)
	delete(database.info, candidateID)

	_, err = store.Load(context.Background(), userID)

	var notFound *ErrProfileNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, candidateID, notFound.CandidateID)
}

func TestSaveExperiences_RoundTrip(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	experiences := []types.Experience{
		{ID: uuid.New(), Company: "Acme", Position: "Engineer", Skills: []string{"Go"}},
		{ID: uuid.New(), Company: "Initech", Position: "Analyst"},
	}
	require.NoError(t, store.SaveExperiences(context.Background(), userID, experiences))

	data, err := store.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, experiences, data.Experiences)

	// Replace semantics: saving a shorter list drops the rest.
	require.NoError(t, store.SaveExperiences(context.Background(), userID, experiences[:1]))
	data, err = store.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, data.Experiences, 1)
}

func TestSaveSkills_WrapsBackendError(t *testing.T) {
	database := newFakeDB()
	database.failSection[SectionSkills] = errors.New("connection reset")
	store := NewStore(database)

	err := store.SaveSkills(context.Background(), uuid.New(), []types.Skill{{ID: uuid.New(), Name: "Go"}})

	var writeErr *RemoteWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, SectionSkills, writeErr.Section)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSaveAll_ReportsPerSection(t *testing.T) {
	database := newFakeDB()
	database.failSection[SectionEducation] = errors.New("deadlock detected")
	store := NewStore(database)
	userID := uuid.New()

	data := &types.ResumeData{
		PersonalInfo: types.PersonalInfo{FullName: "Jane Doe"},
		Education:    []types.Education{{ID: uuid.New(), Institution: "State U"}},
		Skills:       []types.Skill{{ID: uuid.New(), Name: "Go"}},
	}
	results := store.SaveAll(context.Background(), userID, data)

	require.Len(t, results, 6)
	byName := make(map[string]error)
	for _, res := range results {
		byName[res.Section] = res.Err
	}
	assert.NoError(t, byName[SectionPersonalInfo])
	assert.NoError(t, byName[SectionSkills])
	assert.Error(t, byName[SectionEducation])

	// The failed section did not block the others.
	loaded, err := store.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", loaded.PersonalInfo.FullName)
	assert.Len(t, loaded.Skills, 1)
	assert.Empty(t, loaded.Education)
}

func TestTailoredResumes_SaveListDelete(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	resume := &types.TailoredResume{
		ID:            uuid.New(),
		ResumeTitle:   "Acme Backend",
		MatchedSkills: []string{"Go"},
		ResumeData: types.ResumeData{
			PersonalInfo: types.PersonalInfo{FullName: "Jane Doe"},
			Experiences:  []types.Experience{{ID: uuid.New(), Company: "Acme"}},
		},
	}
	require.NoError(t, store.SaveTailoredResume(context.Background(), userID, resume))

	resumes, err := store.ListTailoredResumes(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, resumes, 1)
	assert.Equal(t, "Acme Backend", resumes[0].ResumeTitle)
	assert.Equal(t, "Jane Doe", resumes[0].ResumeData.PersonalInfo.FullName)
	require.Len(t, resumes[0].PrioritizedExperiences, 1)
	assert.Equal(t, "Acme", resumes[0].PrioritizedExperiences[0].Company)

	require.NoError(t, store.DeleteTailoredResume(context.Background(), userID, resume.ID))
	resumes, err = store.ListTailoredResumes(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, resumes)

	// Deleting an already-deleted resume succeeds.
	require.NoError(t, store.DeleteTailoredResume(context.Background(), userID, resume.ID))
}

func TestListTailoredResumes_LegacyRowFallsBackToLiveProfile(t *testing.T) {
	database := newFakeDB()
	store := NewStore(database)
	userID := uuid.New()

	candidateID, err := store.EnsureCandidate(context.Background(), userID)
	require.NoError(t, err)

	database.info[candidateID] = &types.PersonalInfo{FullName: "Jane Doe"}
	database.experiences[candidateID] = []types.Experience{{ID: uuid.New(), Company: "Acme"}}
	// Row saved before snapshots were persisted.
	database.resumes[candidateID] = []db.TailoredResumeRow{
		{ID: uuid.New(), ResumeTitle: "Legacy", HasSnapshot: false},
	}

	resumes, err := store.ListTailoredResumes(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, resumes, 1)
	assert.Equal(t, "Jane Doe", resumes[0].ResumeData.PersonalInfo.FullName)
	require.Len(t, resumes[0].PrioritizedExperiences, 1)
	assert.Equal(t, "Acme", resumes[0].PrioritizedExperiences[0].Company)
}
