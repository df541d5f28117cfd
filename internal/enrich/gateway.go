package enrich

import (
	"context"
	"encoding/json"
	"log"

	"github.com/sony/gobreaker/v2"

	"github.com/jonathan/resume-tailor/internal/schemas"
)

// SummaryPlaceholder is returned when summary generation fails for any
// reason. Callers set the profile summary to this value and proceed; the
// failure is never surfaced as a blocking error.
const SummaryPlaceholder = "Could not generate summary."

// Gateway is a thin adapter over external text-generation services.
// Its extraction and summary methods never return errors: failures are logged
// once and degraded to placeholder or empty values. All methods are pure
// functions of their inputs from the caller's perspective and safe for
// concurrent use.
type Gateway struct {
	chat    ChatClient
	drafter TextGenerator
	breaker *gobreaker.CircuitBreaker[string]
}

// NewGateway creates a gateway over the given providers. drafter may be nil
// if section drafting is not configured. Remote chat calls run through a
// circuit breaker so a failing provider sheds load quickly; an open breaker
// counts as an ordinary failure and degrades the same way.
func NewGateway(chat ChatClient, drafter TextGenerator) *Gateway {
	settings := gobreaker.Settings{
		Name: "enrichment",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("[enrich] circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	}
	return &Gateway{
		chat:    chat,
		drafter: drafter,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// complete runs one chat call through the circuit breaker.
func (g *Gateway) complete(ctx context.Context, system, user string, opts ChatOptions) (string, error) {
	return g.breaker.Execute(func() (string, error) {
		return g.chat.Complete(ctx, system, user, opts)
	})
}

// GenerateSummary produces a one-sentence professional summary (at most 25
// words, never naming the employer) for the job description. On failure it
// returns SummaryPlaceholder.
func (g *Gateway) GenerateSummary(ctx context.Context, jobDescription string) string {
	text, err := g.complete(ctx, summarySystemPrompt, summaryPrompt(jobDescription),
		ChatOptions{MaxTokens: 60, Temperature: 0.7})
	if err != nil {
		log.Printf("[enrich] summary generation failed: %v", err)
		return SummaryPlaceholder
	}
	if text == "" {
		return SummaryPlaceholder
	}
	return text
}

// ExtractCompanyAndTitle pulls the company name and job title out of a job
// description. Best effort: failure or a malformed response yields empty
// strings for both fields.
func (g *Gateway) ExtractCompanyAndTitle(ctx context.Context, jobDescription string) (company, jobTitle string) {
	text, err := g.complete(ctx, "You are a helpful assistant.", companyTitlePrompt(jobDescription),
		ChatOptions{MaxTokens: 60, Temperature: 0})
	if err != nil {
		log.Printf("[enrich] company/title extraction failed: %v", err)
		return "", ""
	}

	doc := []byte(CleanJSONBlock(text))
	if err := schemas.Validate(schemas.CompanyTitle, doc); err != nil {
		log.Printf("[enrich] company/title response rejected: %v", err)
		return "", ""
	}

	var parsed struct {
		Company  string `json:"company"`
		JobTitle string `json:"jobTitle"`
	}
	if err := json.Unmarshal(doc, &parsed); err != nil {
		log.Printf("[enrich] company/title response unparseable: %v", err)
		return "", ""
	}
	return parsed.Company, parsed.JobTitle
}

// ExtractToolsAndSkills pulls required tools and skills out of a job
// description, suggesting complements to the candidate's existing skills.
// Best effort: failure yields empty lists.
func (g *Gateway) ExtractToolsAndSkills(ctx context.Context, jobDescription string, existingSkills []string) (tools, skills []string) {
	text, err := g.complete(ctx,
		"You are a helpful assistant that analyzes job requirements and suggests complementary skills.",
		toolsSkillsPrompt(jobDescription, existingSkills),
		ChatOptions{MaxTokens: 120, Temperature: 0})
	if err != nil {
		log.Printf("[enrich] tools/skills extraction failed: %v", err)
		return []string{}, []string{}
	}

	doc := []byte(CleanJSONBlock(text))
	if err := schemas.Validate(schemas.ToolsAndSkills, doc); err != nil {
		log.Printf("[enrich] tools/skills response rejected: %v", err)
		return []string{}, []string{}
	}

	var parsed struct {
		Tools  []string `json:"tools"`
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal(doc, &parsed); err != nil {
		log.Printf("[enrich] tools/skills response unparseable: %v", err)
		return []string{}, []string{}
	}
	if parsed.Tools == nil {
		parsed.Tools = []string{}
	}
	if parsed.Skills == nil {
		parsed.Skills = []string{}
	}
	return parsed.Tools, parsed.Skills
}

// CandidateDetails summarizes a candidate for section drafting.
type CandidateDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Education  string `json:"education"`
	Experience string `json:"experience"`
	Skills     string `json:"skills"`
}

// DraftSections generates tailored resume sections (Summary, Experience,
// Skills, Education) for the candidate and job description. Unlike the
// extraction methods this one reports its error; the caller shows it inline
// without blocking anything else.
func (g *Gateway) DraftSections(ctx context.Context, candidate CandidateDetails, jobDescription string) (string, error) {
	if g.drafter == nil {
		return "", ErrDraftingUnavailable
	}
	return g.drafter.GenerateText(ctx, draftSectionsPrompt(candidate, jobDescription))
}
