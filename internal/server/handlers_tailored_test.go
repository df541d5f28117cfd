package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/enrich"
	"github.com/jonathan/resume-tailor/internal/types"
)

func tailoringProfile() *types.ResumeData {
	return &types.ResumeData{
		PersonalInfo: types.PersonalInfo{
			FullName: "Jane Doe",
			Summary:  "Software engineer.",
		},
		Experiences: []types.Experience{
			{ID: uuid.New(), Company: "Acme", Position: "Backend Engineer", Skills: []string{"React", "AWS"}},
			{ID: uuid.New(), Company: "Initech", Position: "Analyst", Skills: []string{"Excel"}},
		},
		Skills: []types.Skill{
			{ID: uuid.New(), Name: "React", Category: "Frontend", Level: "Advanced"},
			{ID: uuid.New(), Name: "AWS", Category: "Cloud", Level: "Intermediate"},
			{ID: uuid.New(), Name: "Excel", Category: "Tools", Level: "Expert"},
		},
	}
}

// TestHandleGenerateTailoredResume runs the full flow: summary generation,
// summary persistence, skill matching and snapshot save.
func TestHandleGenerateTailoredResume(t *testing.T) {
	s := newTestServer()
	s.store.data = tailoringProfile()
	s.enricher.summary = "Seasoned engineer ready for this role."
	userID := uuid.New()

	body, err := json.Marshal(GenerateRequest{
		ResumeTitle:    "Acme Backend",
		JobTitle:       "Backend Engineer",
		Company:        "Acme",
		JobDescription: "We need a React developer familiar with AWS and Docker",
	})
	require.NoError(t, err)

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/tailored-resumes/generate", bytes.NewReader(body)), userID)
	w := httptest.NewRecorder()

	s.handleGenerateTailoredResume(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resume types.TailoredResume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resume))
	assert.NotEqual(t, uuid.Nil, resume.ID)
	assert.Equal(t, "Acme Backend", resume.ResumeTitle)
	assert.Equal(t, []string{"react", "aws"}, resume.MatchedSkills)

	// Experience tagged with matched skills sorts first.
	require.Len(t, resume.PrioritizedExperiences, 2)
	assert.Equal(t, "Acme", resume.PrioritizedExperiences[0].Company)
	assert.Equal(t, 2, resume.PrioritizedExperiences[0].MatchScore)

	// Generated summary lands in the snapshot with the matched-skills clause
	// and is persisted back to the live profile.
	assert.Contains(t, resume.ResumeData.PersonalInfo.Summary, "Seasoned engineer ready for this role.")
	assert.Contains(t, resume.ResumeData.PersonalInfo.Summary, "Experienced in react, aws.")
	require.NotNil(t, s.store.savedInfo)
	assert.Equal(t, "Seasoned engineer ready for this role.", s.store.savedInfo.Summary)

	// The snapshot itself is saved.
	require.Len(t, s.store.resumes, 1)
	assert.Equal(t, resume.ID, s.store.resumes[0].ID)
}

// TestHandleGenerateTailoredResume_ProviderDown still succeeds with the placeholder summary
func TestHandleGenerateTailoredResume_ProviderDown(t *testing.T) {
	s := newTestServer()
	s.store.data = tailoringProfile()
	// fakeEnricher with no summary configured returns the placeholder.

	body, err := json.Marshal(GenerateRequest{
		ResumeTitle:    "Acme Backend",
		JobDescription: "We need a React developer",
	})
	require.NoError(t, err)

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/tailored-resumes/generate", bytes.NewReader(body)), uuid.New())
	w := httptest.NewRecorder()

	s.handleGenerateTailoredResume(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resume types.TailoredResume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resume))
	assert.Contains(t, resume.ResumeData.PersonalInfo.Summary, enrich.SummaryPlaceholder)
	require.NotNil(t, s.store.savedInfo)
	assert.Equal(t, enrich.SummaryPlaceholder, s.store.savedInfo.Summary)
}

// TestHandleGenerateTailoredResume_MissingFields rejects requests without required fields
func TestHandleGenerateTailoredResume_MissingFields(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{name: "missing title", req: GenerateRequest{JobDescription: "some job"}},
		{name: "missing job description", req: GenerateRequest{ResumeTitle: "My Resume"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.req)
			require.NoError(t, err)

			req := authedRequest(httptest.NewRequest(http.MethodPost, "/tailored-resumes/generate", bytes.NewReader(body)), uuid.New())
			w := httptest.NewRecorder()

			s.handleGenerateTailoredResume(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// TestHandleListTailoredResumes returns saved resumes, empty list when none
func TestHandleListTailoredResumes(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/tailored-resumes", nil), userID)
	w := httptest.NewRecorder()

	s.handleListTailoredResumes(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	s.store.resumes = []types.TailoredResume{
		{ID: uuid.New(), ResumeTitle: "Acme Backend", CreatedAt: time.Now().UTC()},
	}

	w = httptest.NewRecorder()
	s.handleListTailoredResumes(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resumes []types.TailoredResume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resumes))
	require.Len(t, resumes, 1)
	assert.Equal(t, "Acme Backend", resumes[0].ResumeTitle)
}

// TestHandleUpdateTailoredResume re-generates in place, keeping ID and creation time
func TestHandleUpdateTailoredResume(t *testing.T) {
	s := newTestServer()
	s.store.data = tailoringProfile()
	s.enricher.summary = "Updated summary."
	userID := uuid.New()

	id := uuid.New()
	createdAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s.store.resumes = []types.TailoredResume{
		{ID: id, ResumeTitle: "Old Title", CreatedAt: createdAt},
	}

	body, err := json.Marshal(GenerateRequest{
		ResumeTitle:    "New Title",
		JobDescription: "We need a React developer",
	})
	require.NoError(t, err)

	req := authedRequest(httptest.NewRequest(http.MethodPut, "/tailored-resumes/"+id.String(), bytes.NewReader(body)), userID)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()

	s.handleUpdateTailoredResume(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resume types.TailoredResume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resume))
	assert.Equal(t, id, resume.ID)
	assert.True(t, resume.CreatedAt.Equal(createdAt))
	assert.Equal(t, "New Title", resume.ResumeTitle)

	require.Len(t, s.store.resumes, 1)
	assert.Equal(t, "New Title", s.store.resumes[0].ResumeTitle)
}

// TestHandleUpdateTailoredResume_NotFound rejects unknown IDs
func TestHandleUpdateTailoredResume_NotFound(t *testing.T) {
	s := newTestServer()
	s.store.data = tailoringProfile()

	id := uuid.New()
	body, err := json.Marshal(GenerateRequest{ResumeTitle: "Title", JobDescription: "job"})
	require.NoError(t, err)

	req := authedRequest(httptest.NewRequest(http.MethodPut, "/tailored-resumes/"+id.String(), bytes.NewReader(body)), uuid.New())
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()

	s.handleUpdateTailoredResume(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestHandleDeleteTailoredResume deletes and is idempotent
func TestHandleDeleteTailoredResume(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()
	id := uuid.New()
	s.store.resumes = []types.TailoredResume{{ID: id, ResumeTitle: "Acme Backend"}}

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/tailored-resumes/"+id.String(), nil), userID)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()

	s.handleDeleteTailoredResume(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.store.resumes)

	// Deleting again still succeeds.
	w = httptest.NewRecorder()
	s.handleDeleteTailoredResume(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// TestHandleDeleteTailoredResume_InvalidID rejects malformed UUIDs
func TestHandleDeleteTailoredResume_InvalidID(t *testing.T) {
	s := newTestServer()

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/tailored-resumes/not-a-uuid", nil), uuid.New())
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleDeleteTailoredResume(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
