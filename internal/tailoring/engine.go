// Package tailoring derives job-specific resume snapshots from a candidate
// profile and a pasted job description. Matching is purely local string work;
// no network calls happen here.
package tailoring

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

var wordPattern = regexp.MustCompile(`\w+`)

// minWordLen excludes short tokens ("a", "of", "to") from keyword matching;
// substring matching either direction would otherwise let them hit most of
// the vocabulary.
const minWordLen = 3

// Request carries the inputs for one tailoring run.
type Request struct {
	ResumeTitle    string
	JobTitle       string
	Company        string
	JobDescription string

	// Summary, when set, replaces the profile summary before the
	// matched-skills clause is appended. The caller that obtained it from the
	// enrichment gateway is the single owner of summary generation; the
	// engine never fetches one itself.
	Summary string

	// ExistingID and ExistingCreatedAt preserve identity when re-generating
	// a saved tailored resume.
	ExistingID        uuid.UUID
	ExistingCreatedAt time.Time
}

// ExtractKeywords returns the vocabulary terms present in the text.
// The text is lowercased and split into words; a term matches when it is a
// substring of a word or a word is a substring of the term. Results keep
// vocabulary order.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return nil
	}

	var keywords []string
	for _, term := range vocabulary {
		for _, word := range words {
			if len(word) < minWordLen {
				continue
			}
			if overlaps(term, word) {
				keywords = append(keywords, term)
				break
			}
		}
	}
	return keywords
}

// MatchSkills filters job keywords down to those overlapping the candidate's
// declared skill names, case-insensitively and substring-symmetrically:
// "React" in a skill matches "reactjs" in a description and vice versa.
func MatchSkills(keywords, skillNames []string) []string {
	if len(keywords) == 0 || len(skillNames) == 0 {
		return nil
	}

	lowered := make([]string, len(skillNames))
	for i, name := range skillNames {
		lowered[i] = strings.ToLower(name)
	}

	var matched []string
	for _, keyword := range keywords {
		for _, name := range lowered {
			if overlaps(keyword, name) {
				matched = append(matched, keyword)
				break
			}
		}
	}
	return matched
}

// ScoreExperiences annotates each experience with the count of its own skill
// tags overlapping matchedSkills, then sorts descending by score. The sort is
// stable: equal scores keep their relative input order.
func ScoreExperiences(experiences []types.Experience, matchedSkills []string) []types.ScoredExperience {
	scored := make([]types.ScoredExperience, 0, len(experiences))
	for _, exp := range experiences {
		score := 0
		for _, skill := range exp.Skills {
			lowered := strings.ToLower(skill)
			for _, matched := range matchedSkills {
				if overlaps(lowered, matched) {
					score++
					break
				}
			}
		}
		scored = append(scored, types.ScoredExperience{Experience: exp.Clone(), MatchScore: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	return scored
}

// TailorSummary appends a clause naming up to the first 5 matched skills.
// With no matches the summary is returned unchanged.
func TailorSummary(summary string, matchedSkills []string) string {
	if len(matchedSkills) == 0 {
		return summary
	}
	named := matchedSkills
	if len(named) > 5 {
		named = named[:5]
	}
	return summary + " Experienced in " + strings.Join(named, ", ") + "."
}

// Generate produces a tailored resume snapshot from the profile and request.
// The snapshot is a deep copy: later edits to the live profile do not touch
// it. Persistence is the caller's responsibility.
func Generate(data *types.ResumeData, req Request) *types.TailoredResume {
	keywords := ExtractKeywords(req.JobDescription)
	matchedSkills := MatchSkills(keywords, data.SkillNames())
	prioritized := ScoreExperiences(data.Experiences, matchedSkills)

	baseSummary := data.PersonalInfo.Summary
	if req.Summary != "" {
		baseSummary = req.Summary
	}

	snapshot := data.Clone()
	snapshot.PersonalInfo.Summary = TailorSummary(baseSummary, matchedSkills)
	snapshot.Experiences = make([]types.Experience, len(prioritized))
	for i, exp := range prioritized {
		snapshot.Experiences[i] = exp.Experience
	}

	id := req.ExistingID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := req.ExistingCreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if matchedSkills == nil {
		matchedSkills = []string{}
	}
	return &types.TailoredResume{
		ID:                     id,
		ResumeTitle:            req.ResumeTitle,
		JobTitle:               req.JobTitle,
		Company:                req.Company,
		JobDescription:         req.JobDescription,
		CreatedAt:              createdAt,
		ResumeData:             snapshot,
		MatchedSkills:          matchedSkills,
		PrioritizedExperiences: prioritized,
	}
}

// overlaps reports whether either lowercase string contains the other.
func overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
