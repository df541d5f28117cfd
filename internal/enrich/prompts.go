package enrich

import (
	"encoding/json"
	"fmt"
	"strings"
)

const summarySystemPrompt = "You are an expert resume writer. Never mention company names in professional summaries."

func summaryPrompt(jobDescription string) string {
	return fmt.Sprintf("Write an extremely short professional resume summary (1 sentence, maximum 25 words) for a candidate applying to the following job. Focus on matching the tone and requirements of the job description. IMPORTANT: Do NOT mention the company name in the summary.\n\nJob Description:\n%s\n\nProfessional Summary:", jobDescription)
}

func companyTitlePrompt(jobDescription string) string {
	return fmt.Sprintf(`Extract the company name and job title from the following job description. Respond ONLY in this JSON format: { "company": "...", "jobTitle": "..." }

Job Description:
%s`, jobDescription)
}

func toolsSkillsPrompt(jobDescription string, existingSkills []string) string {
	existing := ""
	if len(existingSkills) > 0 {
		existing = "\n\nExisting Skills: " + strings.Join(existingSkills, ", ")
	}
	return fmt.Sprintf(`Extract the tools and skills required or preferred from the following job description. Also consider the existing skills provided and suggest additional relevant skills/tools that would complement them. Respond ONLY in this JSON format: { "tools": ["..."], "skills": ["..."] }

Job Description:
%s%s`, jobDescription, existing)
}

func draftSectionsPrompt(candidate CandidateDetails, jobDescription string) string {
	details, _ := json.MarshalIndent(candidate, "", "  ")
	return fmt.Sprintf("Given the following candidate details and job description, generate tailored resume sections (Summary, Experience, Skills, Education) that best match the job requirements.\n\nCandidate Details:\n%s\n\nJob Description:\n%s\n\nResume Sections:", details, jobDescription)
}
