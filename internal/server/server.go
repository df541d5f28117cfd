package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/enrich"
	"github.com/jonathan/resume-tailor/internal/profile"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/types"
)

// ProfileStore is the profile/tailored-resume surface the handlers depend on.
// *profile.Store satisfies it; tests substitute fakes.
type ProfileStore interface {
	EnsureCandidate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	ClearOnSignOut(userID uuid.UUID)
	Load(ctx context.Context, userID uuid.UUID) (*types.ResumeData, error)
	SavePersonalInfo(ctx context.Context, userID uuid.UUID, info *types.PersonalInfo) error
	SaveExperiences(ctx context.Context, userID uuid.UUID, experiences []types.Experience) error
	SaveEducation(ctx context.Context, userID uuid.UUID, education []types.Education) error
	SaveSkills(ctx context.Context, userID uuid.UUID, skills []types.Skill) error
	SaveCertifications(ctx context.Context, userID uuid.UUID, certifications []types.Certification) error
	SaveLanguages(ctx context.Context, userID uuid.UUID, languages []types.Language) error
	SaveAll(ctx context.Context, userID uuid.UUID, data *types.ResumeData) []profile.SectionResult
	ListTailoredResumes(ctx context.Context, userID uuid.UUID) ([]types.TailoredResume, error)
	SaveTailoredResume(ctx context.Context, userID uuid.UUID, resume *types.TailoredResume) error
	DeleteTailoredResume(ctx context.Context, userID, id uuid.UUID) error
}

// Enricher is the enrichment gateway surface the handlers depend on.
type Enricher interface {
	GenerateSummary(ctx context.Context, jobDescription string) string
	ExtractCompanyAndTitle(ctx context.Context, jobDescription string) (company, jobTitle string)
	ExtractToolsAndSkills(ctx context.Context, jobDescription string, existingSkills []string) (tools, skills []string)
	DraftSections(ctx context.Context, candidate enrich.CandidateDetails, jobDescription string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	profiles   ProfileStore
	enricher   Enricher
	jwtService *JWTService
	validate   *validator.Validate
}

// New creates a new server instance wired to PostgreSQL and the external
// text-generation providers.
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	chat, err := enrich.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	// Section drafting is optional; without a Gemini key the rest of the
	// enrichment surface still works.
	var drafter enrich.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := enrich.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		drafter = gemini
	}

	s := newServer(profile.NewStore(database), enrich.NewGateway(chat, drafter), NewJWTService(jwtConfig))
	s.db = database
	s.httpServer.Addr = fmt.Sprintf(":%d", cfg.Port)
	return s, nil
}

// newServer wires handlers and middleware around the given dependencies.
func newServer(profiles ProfileStore, enricher Enricher, jwtService *JWTService) *Server {
	s := &Server{
		profiles:   profiles,
		enricher:   enricher,
		jwtService: jwtService,
		validate:   validator.New(),
	}

	auth := middleware.AuthMiddleware(jwtService.AsTokenValidator())
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Profile endpoints
	mux.Handle("GET /profile", auth(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("PUT /profile", auth(http.HandlerFunc(s.handleSaveProfile)))
	mux.Handle("PUT /profile/personal-info", auth(http.HandlerFunc(s.handleSavePersonalInfo)))
	mux.Handle("PUT /profile/experiences", auth(http.HandlerFunc(s.handleSaveExperiences)))
	mux.Handle("PUT /profile/education", auth(http.HandlerFunc(s.handleSaveEducation)))
	mux.Handle("PUT /profile/skills", auth(http.HandlerFunc(s.handleSaveSkills)))
	mux.Handle("PUT /profile/certifications", auth(http.HandlerFunc(s.handleSaveCertifications)))
	mux.Handle("PUT /profile/languages", auth(http.HandlerFunc(s.handleSaveLanguages)))

	// Tailored resume endpoints
	mux.Handle("GET /tailored-resumes", auth(http.HandlerFunc(s.handleListTailoredResumes)))
	mux.Handle("POST /tailored-resumes/generate", auth(http.HandlerFunc(s.handleGenerateTailoredResume)))
	mux.Handle("PUT /tailored-resumes/{id}", auth(http.HandlerFunc(s.handleUpdateTailoredResume)))
	mux.Handle("DELETE /tailored-resumes/{id}", auth(http.HandlerFunc(s.handleDeleteTailoredResume)))

	// Enrichment endpoints
	mux.Handle("POST /enrich/summary", auth(http.HandlerFunc(s.handleEnrichSummary)))
	mux.Handle("POST /enrich/extract-job", auth(http.HandlerFunc(s.handleExtractJob)))
	mux.Handle("POST /enrich/extract-skills", auth(http.HandlerFunc(s.handleExtractSkills)))
	mux.Handle("POST /enrich/draft-sections", auth(http.HandlerFunc(s.handleDraftSections)))

	// Session lifecycle
	mux.Handle("POST /signout", auth(http.HandlerFunc(s.handleSignOut)))

	s.httpServer = &http.Server{
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSignOut drops the session-scoped candidate cache for the caller.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.profiles.ClearOnSignOut(userID)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
