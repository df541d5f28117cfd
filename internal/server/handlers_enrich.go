package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/enrich"
)

// EnrichJobRequest is the shared payload for the enrichment endpoints that
// work from a pasted job description.
type EnrichJobRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

// ExtractSkillsRequest additionally carries the candidate's existing skills
// so the provider can avoid suggesting duplicates.
type ExtractSkillsRequest struct {
	JobDescription string   `json:"jobDescription" validate:"required"`
	ExistingSkills []string `json:"existingSkills"`
}

// DraftSectionsRequest carries the candidate details and job description for
// full section drafting.
type DraftSectionsRequest struct {
	Candidate      enrich.CandidateDetails `json:"candidate"`
	JobDescription string                  `json:"jobDescription" validate:"required"`
}

// handleEnrichSummary generates a professional summary for a job description.
// Degradation is built into the gateway: on provider failure the placeholder
// text comes back with a 200, never an error.
func (s *Server) handleEnrichSummary(w http.ResponseWriter, r *http.Request) {
	var req EnrichJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "jobDescription is required")
		return
	}

	summary := s.enricher.GenerateSummary(r.Context(), req.JobDescription)
	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": summary})
}

// handleExtractJob extracts the company name and job title from a job
// description. Extraction failures degrade to empty strings.
func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var req EnrichJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "jobDescription is required")
		return
	}

	company, jobTitle := s.enricher.ExtractCompanyAndTitle(r.Context(), req.JobDescription)
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"company":  company,
		"jobTitle": jobTitle,
	})
}

// handleExtractSkills extracts suggested tools and skills from a job
// description. Extraction failures degrade to empty lists.
func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req ExtractSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "jobDescription is required")
		return
	}

	tools, skills := s.enricher.ExtractToolsAndSkills(r.Context(), req.JobDescription, req.ExistingSkills)
	if tools == nil {
		tools = []string{}
	}
	if skills == nil {
		skills = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{
		"tools":  tools,
		"skills": skills,
	})
}

// handleDraftSections drafts full resume sections for the candidate. Unlike
// the other enrichment endpoints this one surfaces provider errors.
func (s *Server) handleDraftSections(w http.ResponseWriter, r *http.Request) {
	var req DraftSectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "jobDescription is required")
		return
	}

	draft, err := s.enricher.DraftSections(r.Context(), req.Candidate, req.JobDescription)
	if err != nil {
		if err == enrich.ErrDraftingUnavailable {
			s.errorResponse(w, http.StatusServiceUnavailable, "Section drafting is not configured")
			return
		}
		log.Printf("Error drafting sections: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "Failed to draft sections")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"draft": draft})
}
