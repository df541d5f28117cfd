package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/types"
)

// sectionStatus is the wire form of one section outcome in a full-profile save.
type sectionStatus struct {
	Section string `json:"section"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// handleGetProfile loads the caller's complete profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	data, err := s.profiles.Load(r.Context(), userID)
	if err != nil {
		// A missing row after EnsureCandidate ran is an anomaly, not a
		// first-visit state; first visits load an empty provisioned profile.
		log.Printf("Error loading profile: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to load profile")
		return
	}

	s.jsonResponse(w, http.StatusOK, data)
}

// handleSaveProfile saves every section of the profile, best effort, and
// reports the per-section outcomes.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var data types.ResumeData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results := s.profiles.SaveAll(r.Context(), userID, &data)

	statuses := make([]sectionStatus, 0, len(results))
	failed := 0
	for _, res := range results {
		st := sectionStatus{Section: res.Section, Status: "saved"}
		if res.Err != nil {
			failed++
			st.Status = "failed"
			st.Error = res.Err.Error()
			log.Printf("Error saving profile section %s: %v", res.Section, res.Err)
		}
		statuses = append(statuses, st)
	}

	status := http.StatusOK
	if failed > 0 {
		// Partial failure: some sections stuck, some did not. 207 tells the
		// client to inspect the per-section results.
		status = http.StatusMultiStatus
	}
	s.jsonResponse(w, status, map[string]any{"results": statuses})
}

// saveSection decodes the request body into dst and, on success, runs save.
// It centralizes the shared shape of the six per-section save handlers.
func (s *Server) saveSection(w http.ResponseWriter, r *http.Request, dst any, save func() error) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := save(); err != nil {
		log.Printf("Error saving profile section: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Failed to save section")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleSavePersonalInfo(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var info types.PersonalInfo
	s.saveSection(w, r, &info, func() error {
		return s.profiles.SavePersonalInfo(r.Context(), userID, &info)
	})
}

func (s *Server) handleSaveExperiences(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var experiences []types.Experience
	s.saveSection(w, r, &experiences, func() error {
		return s.profiles.SaveExperiences(r.Context(), userID, experiences)
	})
}

func (s *Server) handleSaveEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var education []types.Education
	s.saveSection(w, r, &education, func() error {
		return s.profiles.SaveEducation(r.Context(), userID, education)
	})
}

func (s *Server) handleSaveSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var skills []types.Skill
	s.saveSection(w, r, &skills, func() error {
		return s.profiles.SaveSkills(r.Context(), userID, skills)
	})
}

func (s *Server) handleSaveCertifications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var certifications []types.Certification
	s.saveSection(w, r, &certifications, func() error {
		return s.profiles.SaveCertifications(r.Context(), userID, certifications)
	})
}

func (s *Server) handleSaveLanguages(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var languages []types.Language
	s.saveSection(w, r, &languages, func() error {
		return s.profiles.SaveLanguages(r.Context(), userID, languages)
	})
}
