// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UserType is the self-declared profile of the person uploading a resume.
type UserType string

// UserType constants
const (
	UserTypeFresher     UserType = "fresher"
	UserTypeExperienced UserType = "experienced"
	UserTypeStudent     UserType = "student"
)

// Education is a single education entry.
type Education struct {
	Degree string `json:"degree" validate:"required"`
	School string `json:"school" validate:"required"`
	Year   string `json:"year,omitempty"`
	GPA    string `json:"gpa,omitempty"`
}

// WorkExperience is a single position with its ordered bullet list.
type WorkExperience struct {
	Role    string   `json:"role" validate:"required"`
	Company string   `json:"company" validate:"required"`
	Year    string   `json:"year,omitempty"` // year range, e.g. "2019 - 2022" or "Jan 2020 - Present"
	Bullets []string `json:"bullets,omitempty"`
}

// Project is a single project entry.
type Project struct {
	Title     string   `json:"title" validate:"required"`
	Bullets   []string `json:"bullets,omitempty"`
	TechStack []string `json:"tech_stack,omitempty"`
}

// SkillCategory groups skills under a category name.
type SkillCategory struct {
	Category string   `json:"category" validate:"required"`
	List     []string `json:"list" validate:"min=1"`
}

// Certification is either a titled certification with a description or a bare string.
type Certification struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both `"AWS Certified Developer"` and `{"title": ..., "description": ...}`.
func (c *Certification) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		c.Title = strings.TrimSpace(bare)
		c.Description = ""
		return nil
	}

	type plain Certification
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Certification(p)
	return nil
}

// Text returns the certification as a single searchable string.
func (c Certification) Text() string {
	if c.Description == "" {
		return c.Title
	}
	return c.Title + " " + c.Description
}

// ResumeData is the structured form of a resume.
type ResumeData struct {
	Name           string           `json:"name,omitempty"`
	Email          string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string           `json:"phone,omitempty"`
	LinkedIn       string           `json:"linkedin,omitempty"`
	GitHub         string           `json:"github,omitempty"`
	Location       string           `json:"location,omitempty"`
	Summary        string           `json:"summary,omitempty"`
	Education      []Education      `json:"education,omitempty" validate:"dive"`
	WorkExperience []WorkExperience `json:"work_experience,omitempty" validate:"dive"`
	Projects       []Project        `json:"projects,omitempty" validate:"dive"`
	Skills         []SkillCategory  `json:"skills,omitempty" validate:"dive"`
	Certifications []Certification  `json:"certifications,omitempty" validate:"dive"`
	Achievements   []string         `json:"achievements,omitempty"`
}

// Validate checks structural constraints on the resume using the validator.
// Returns a *ValidationError listing every failing field.
func (r *ResumeData) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return NewValidationError(err)
	}
	return nil
}

// AllBullets returns experience bullets followed by project bullets, preserving order.
func (r *ResumeData) AllBullets() []string {
	if r == nil {
		return nil
	}
	var bullets []string
	for _, exp := range r.WorkExperience {
		bullets = append(bullets, exp.Bullets...)
	}
	for _, proj := range r.Projects {
		bullets = append(bullets, proj.Bullets...)
	}
	return bullets
}

// AllSkills returns every listed skill plus project tech stacks, in declaration order.
func (r *ResumeData) AllSkills() []string {
	if r == nil {
		return nil
	}
	var skills []string
	for _, cat := range r.Skills {
		skills = append(skills, cat.List...)
	}
	for _, proj := range r.Projects {
		skills = append(skills, proj.TechStack...)
	}
	return skills
}

// Text renders the structured resume as plain text with canonical section headers.
// Used when a caller supplies only structured data.
func (r *ResumeData) Text() string {
	if r == nil {
		return ""
	}

	var sb strings.Builder
	writeLine := func(s string) {
		if strings.TrimSpace(s) != "" {
			sb.WriteString(s)
			sb.WriteString("\n")
		}
	}

	writeLine(r.Name)
	writeLine(r.Email)
	writeLine(r.Phone)
	writeLine(r.LinkedIn)
	writeLine(r.GitHub)
	writeLine(r.Location)

	if r.Summary != "" {
		sb.WriteString("\nSUMMARY\n")
		writeLine(r.Summary)
	}
	if len(r.Skills) > 0 {
		sb.WriteString("\nSKILLS\n")
		for _, cat := range r.Skills {
			writeLine(cat.Category + ": " + strings.Join(cat.List, ", "))
		}
	}
	if len(r.WorkExperience) > 0 {
		sb.WriteString("\nEXPERIENCE\n")
		for _, exp := range r.WorkExperience {
			writeLine(strings.TrimSpace(exp.Role + " | " + exp.Company + " | " + exp.Year))
			for _, b := range exp.Bullets {
				writeLine("• " + b)
			}
		}
	}
	if len(r.Projects) > 0 {
		sb.WriteString("\nPROJECTS\n")
		for _, p := range r.Projects {
			title := p.Title
			if len(p.TechStack) > 0 {
				title += " (" + strings.Join(p.TechStack, ", ") + ")"
			}
			writeLine(title)
			for _, b := range p.Bullets {
				writeLine("• " + b)
			}
		}
	}
	if len(r.Education) > 0 {
		sb.WriteString("\nEDUCATION\n")
		for _, e := range r.Education {
			line := e.Degree + ", " + e.School
			if e.Year != "" {
				line += " (" + e.Year + ")"
			}
			if e.GPA != "" {
				line += " GPA: " + e.GPA
			}
			writeLine(line)
		}
	}
	if len(r.Certifications) > 0 {
		sb.WriteString("\nCERTIFICATIONS\n")
		for _, c := range r.Certifications {
			writeLine("• " + c.Text())
		}
	}
	if len(r.Achievements) > 0 {
		sb.WriteString("\nACHIEVEMENTS\n")
		for _, a := range r.Achievements {
			writeLine("• " + a)
		}
	}

	return strings.TrimSpace(sb.String())
}
