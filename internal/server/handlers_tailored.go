package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
)

// GenerateRequest is the payload for creating or re-generating a tailored resume.
type GenerateRequest struct {
	ResumeTitle    string `json:"resumeTitle" validate:"required"`
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// handleListTailoredResumes returns the caller's saved tailored resumes.
func (s *Server) handleListTailoredResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumes, err := s.profiles.ListTailoredResumes(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing tailored resumes: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to list tailored resumes")
		return
	}
	if resumes == nil {
		resumes = []types.TailoredResume{}
	}
	s.jsonResponse(w, http.StatusOK, resumes)
}

// handleGenerateTailoredResume runs the full tailoring flow: load the
// profile, generate a summary for the job description, persist the new
// summary to the profile, derive the tailored snapshot and save it.
func (s *Server) handleGenerateTailoredResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			s.errorResponse(w, http.StatusBadRequest, "Missing required field: "+verrs[0].Field())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	data, err := s.profiles.Load(r.Context(), userID)
	if err != nil {
		log.Printf("Error loading profile for tailoring: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to load profile")
		return
	}

	// Summary generation is owned here: the engine only ever consumes the
	// result. A provider failure yields the placeholder text, which still
	// flows through so the run never blocks on the LLM.
	summary := s.enricher.GenerateSummary(r.Context(), req.JobDescription)
	info := data.PersonalInfo
	info.Summary = summary
	if err := s.profiles.SavePersonalInfo(r.Context(), userID, &info); err != nil {
		log.Printf("Error persisting generated summary: %v", err)
	} else {
		data.PersonalInfo.Summary = summary
	}

	resume := tailoring.Generate(data, tailoring.Request{
		ResumeTitle:    req.ResumeTitle,
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		JobDescription: req.JobDescription,
		Summary:        summary,
	})

	if err := s.profiles.SaveTailoredResume(r.Context(), userID, resume); err != nil {
		log.Printf("Error saving tailored resume: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to save tailored resume")
		return
	}

	s.jsonResponse(w, http.StatusCreated, resume)
}

// handleUpdateTailoredResume re-generates a saved tailored resume in place,
// keeping its identity and creation time.
func (s *Server) handleUpdateTailoredResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	existing, err := s.profiles.ListTailoredResumes(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing tailored resumes: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to load tailored resumes")
		return
	}
	var createdAt time.Time
	found := false
	for _, res := range existing {
		if res.ID == id {
			createdAt = res.CreatedAt
			found = true
			break
		}
	}
	if !found {
		s.errorResponse(w, http.StatusNotFound, "Tailored resume not found")
		return
	}

	data, err := s.profiles.Load(r.Context(), userID)
	if err != nil {
		log.Printf("Error loading profile for tailoring: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to load profile")
		return
	}

	summary := s.enricher.GenerateSummary(r.Context(), req.JobDescription)
	info := data.PersonalInfo
	info.Summary = summary
	if err := s.profiles.SavePersonalInfo(r.Context(), userID, &info); err != nil {
		log.Printf("Error persisting generated summary: %v", err)
	} else {
		data.PersonalInfo.Summary = summary
	}

	resume := tailoring.Generate(data, tailoring.Request{
		ResumeTitle:       req.ResumeTitle,
		JobTitle:          req.JobTitle,
		Company:           req.Company,
		JobDescription:    req.JobDescription,
		Summary:           summary,
		ExistingID:        id,
		ExistingCreatedAt: createdAt,
	})

	if err := s.profiles.SaveTailoredResume(r.Context(), userID, resume); err != nil {
		log.Printf("Error saving tailored resume: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to save tailored resume")
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleDeleteTailoredResume deletes a saved tailored resume. Deleting an
// unknown ID succeeds; delete is idempotent.
func (s *Server) handleDeleteTailoredResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	if err := s.profiles.DeleteTailoredResume(r.Context(), userID, id); err != nil {
		log.Printf("Error deleting tailored resume: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to delete tailored resume")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
