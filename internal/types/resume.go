// Package types defines the shared domain types for candidate profiles and
// tailored resumes. JSON field names match the wire format the web client uses.
package types

import (
	"time"

	"github.com/google/uuid"
)

// PersonalInfo holds the candidate's contact details and professional summary.
// Summary is mutable by both the user and tailoring runs; the last write wins.
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Portfolio string `json:"portfolio,omitempty"`
	Summary   string `json:"summary"`
}

// Experience represents one employment history entry.
// When Current is true, EndDate is ignored and cleared on save.
type Experience struct {
	ID           uuid.UUID `json:"id"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate,omitempty"`
	Current      bool      `json:"current"`
	Description  string    `json:"description"`
	Achievements []string  `json:"achievements"`
	Skills       []string  `json:"skills"`
	Location     string    `json:"location,omitempty"`
}

// Education represents one education entry.
type Education struct {
	ID             uuid.UUID `json:"id"`
	Institution    string    `json:"institution"`
	Degree         string    `json:"degree"`
	Field          string    `json:"field"`
	GraduationDate string    `json:"graduationDate"`
	GPA            string    `json:"gpa,omitempty"`
	Honors         string    `json:"honors,omitempty"`
	Location       string    `json:"location,omitempty"`
}

// Skill represents one declared skill with a proficiency level.
type Skill struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Level    string    `json:"level"` // Beginner, Intermediate, Advanced, Expert
}

// Certification represents one professional certification, optionally with expiry.
type Certification struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Issuer       string    `json:"issuer"`
	Date         string    `json:"date"`
	ExpiryDate   string    `json:"expiryDate,omitempty"`
	CredentialID string    `json:"credentialId,omitempty"`
}

// Language represents one spoken language with a proficiency rating.
type Language struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Proficiency string    `json:"proficiency"`
}

// ResumeData is the full candidate profile: personal info plus the five
// child collections. Every list item carries a client-generated UUID that is
// stable across edits and never reused.
type ResumeData struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experiences    []Experience    `json:"experiences"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
}

// ScoredExperience is an experience annotated with its tailoring match score.
// The score is ephemeral: it is computed per tailoring run and not persisted.
type ScoredExperience struct {
	Experience
	MatchScore int `json:"matchScore"`
}

// TailoredResume is a named, job-specific snapshot derived from a profile.
// ResumeData is a deep, independent copy: later edits to the live profile
// never mutate a saved tailored resume.
type TailoredResume struct {
	ID                     uuid.UUID          `json:"id"`
	ResumeTitle            string             `json:"resumeTitle"`
	JobTitle               string             `json:"jobTitle"`
	Company                string             `json:"company"`
	JobDescription         string             `json:"jobDescription"`
	CreatedAt              time.Time          `json:"createdAt"`
	ResumeData             ResumeData         `json:"resumeData"`
	MatchedSkills          []string           `json:"matchedSkills"`
	PrioritizedExperiences []ScoredExperience `json:"prioritizedExperiences"`
}

// Clone returns a deep copy of the experience.
func (e Experience) Clone() Experience {
	out := e
	out.Achievements = append([]string(nil), e.Achievements...)
	out.Skills = append([]string(nil), e.Skills...)
	return out
}

// Clone returns a deep copy of the resume data, suitable for point-in-time
// snapshots that must stay independent of the live profile.
func (d ResumeData) Clone() ResumeData {
	out := d
	if d.Experiences != nil {
		out.Experiences = make([]Experience, len(d.Experiences))
		for i, exp := range d.Experiences {
			out.Experiences[i] = exp.Clone()
		}
	}
	out.Education = append([]Education(nil), d.Education...)
	out.Skills = append([]Skill(nil), d.Skills...)
	out.Certifications = append([]Certification(nil), d.Certifications...)
	out.Languages = append([]Language(nil), d.Languages...)
	return out
}

// SkillNames returns the names of all declared skills, in declaration order.
func (d ResumeData) SkillNames() []string {
	names := make([]string, 0, len(d.Skills))
	for _, s := range d.Skills {
		names = append(names, s.Name)
	}
	return names
}
