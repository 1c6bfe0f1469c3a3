package analyzers

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Education rubric caps. The raw sum is capped at rubricCap and doubled onto a 0-10 scale.
const (
	maxFieldPoints  = 1.5
	maxFormatPoints = 1.0
	maxGPAPoints    = 0.5
	rubricCap       = 5.0
	rubricScale     = 2.0
)

var (
	gpaPattern         = regexp.MustCompile(`(?i)\b(?:c?gpa|grade point average)\s*[:\-]?\s*(\d{1,2}(?:\.\d{1,2})?)\s*(?:/\s*(\d{1,2}(?:\.\d{1,2})?))?`)
	yearPattern        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	institutionPattern = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy|polytechnic|iit|nit)\b`)
)

// EducationMetrics summarises education and certifications as two 0-10 sub-scores.
type EducationMetrics struct {
	HasDegree       bool    `json:"has_degree"`
	DegreeLevel     string  `json:"degree_level,omitempty"`
	DegreePoints    float64 `json:"degree_points"`
	FieldRelevant   bool    `json:"field_relevant"`
	FieldPoints     float64 `json:"field_points"`
	FormatPoints    float64 `json:"format_points"`
	GPA             float64 `json:"gpa,omitempty"`
	GPAScale        float64 `json:"gpa_scale,omitempty"`
	GPAPoints       float64 `json:"gpa_points"`
	Institution     string  `json:"institution,omitempty"`
	InstitutionTier string  `json:"institution_tier"`
	PrestigeScore   float64 `json:"prestige_score"`
	EducationScore  float64 `json:"education_score"`

	Certifications           []string `json:"certifications"`
	RecognizedCertifications []string `json:"recognized_certifications"`
	CertificationScore       float64  `json:"certification_score"`

	Issues []string `json:"issues"`
}

// AnalyzeEducation scores degree, institution and certification evidence. jd may be empty.
func AnalyzeEducation(text string, data *types.ResumeData, sec *types.SectionAnalysis, jd string) EducationMetrics {
	r := tables()
	m := EducationMetrics{
		InstitutionTier:          "none",
		Certifications:           []string{},
		RecognizedCertifications: []string{},
		Issues:                   []string{},
	}

	body, school := educationBody(text, data, sec)
	scoreDegree(&m, &r.Education, body, jd)

	hasSchool := school != ""
	if !hasSchool {
		school = findInstitution(body)
		hasSchool = school != ""
	}
	hasYear := yearPattern.MatchString(body)
	if m.HasDegree {
		m.FormatPoints = maxFormatPoints / 3
		if hasSchool {
			m.FormatPoints += maxFormatPoints / 3
		}
		if hasYear {
			m.FormatPoints += maxFormatPoints / 3
		}
	}
	scoreGPA(&m, body)

	if hasSchool {
		m.Institution = school
		m.InstitutionTier, m.PrestigeScore = r.Education.Prestige(school)
	}

	raw := m.DegreePoints + m.FieldPoints + m.FormatPoints + m.GPAPoints
	m.EducationScore = round1(math.Min(raw, rubricCap) * rubricScale)

	scoreCertifications(&m, &r.Education, certificationList(data, sec), jd)

	switch {
	case !m.HasDegree:
		m.Issues = append(m.Issues, "No degree found in education section")
	case !hasYear:
		m.Issues = append(m.Issues, "Education entry is missing a graduation year")
	}
	if m.HasDegree && !hasSchool {
		m.Issues = append(m.Issues, "Education entry is missing the institution name")
	}
	if len(m.Certifications) == 0 {
		m.Issues = append(m.Issues, "No certifications listed")
	}
	return m
}

func educationBody(text string, data *types.ResumeData, sec *types.SectionAnalysis) (string, string) {
	if data != nil && len(data.Education) > 0 {
		var sb strings.Builder
		for _, e := range data.Education {
			sb.WriteString(e.Degree + " " + e.School + " " + e.Year)
			if e.GPA != "" {
				sb.WriteString(" GPA: " + e.GPA)
			}
			sb.WriteString("\n")
		}
		return sb.String(), data.Education[0].School
	}
	return sectionOrText(text, sec, types.SectionEducation), ""
}

func scoreDegree(m *EducationMetrics, e *rubric.EducationTables, body, jd string) {
	for _, level := range e.DegreeLevels {
		if _, ok := rubric.ContainsAny(body, level.Patterns); ok && level.Points > m.DegreePoints {
			m.HasDegree = true
			m.DegreeLevel = level.Level
			m.DegreePoints = level.Points
		}
	}
	if !m.HasDegree {
		return
	}

	field, relevant := rubric.ContainsAny(body, e.RelevantFields)
	m.FieldRelevant = relevant
	switch {
	case relevant && (jd == "" || rubric.ContainsTerm(jd, field) || strings.Contains(strings.ToLower(jd), "related field")):
		m.FieldPoints = maxFieldPoints
	case relevant:
		m.FieldPoints = 1.0
	default:
		m.FieldPoints = 0.5
	}
}

func scoreGPA(m *EducationMetrics, body string) {
	match := gpaPattern.FindStringSubmatch(body)
	if match == nil {
		return
	}
	gpa, err := strconv.ParseFloat(match[1], 64)
	if err != nil || gpa <= 0 {
		return
	}
	scale := 4.0
	if match[2] != "" {
		if s, err := strconv.ParseFloat(match[2], 64); err == nil && s > 0 {
			scale = s
		}
	} else if gpa > 4 {
		scale = 10
	}
	m.GPA = gpa
	m.GPAScale = scale

	switch normalized := gpa / scale; {
	case normalized >= 0.85:
		m.GPAPoints = maxGPAPoints
	case normalized >= 0.75:
		m.GPAPoints = maxGPAPoints / 2
	}
}

func findInstitution(body string) string {
	for _, line := range splitLines(body) {
		if institutionPattern.MatchString(line) {
			return line
		}
	}
	return ""
}

func certificationList(data *types.ResumeData, sec *types.SectionAnalysis) []string {
	var certs []string
	if data != nil && len(data.Certifications) > 0 {
		for _, c := range data.Certifications {
			certs = append(certs, c.Text())
		}
		return dedupe(certs)
	}
	for _, line := range splitLines(sec.Content(types.SectionCertifications)) {
		certs = append(certs, sections.StripBullet(line))
	}
	return dedupe(certs)
}

func scoreCertifications(m *EducationMetrics, e *rubric.EducationTables, certs []string, jd string) {
	m.Certifications = append(m.Certifications, certs...)
	if len(certs) == 0 {
		return
	}

	jdRelevant := false
	for _, c := range certs {
		if _, ok := rubric.ContainsAny(c, e.CertificationProviders); ok {
			m.RecognizedCertifications = append(m.RecognizedCertifications, c)
		}
		if jd != "" && !jdRelevant {
			for _, word := range strings.Fields(strings.ToLower(c)) {
				word = strings.Trim(word, ".,()-:")
				if len(word) > 2 && !tables().Language.IsStopWord(word) && rubric.ContainsTerm(jd, word) {
					jdRelevant = true
					break
				}
			}
		}
	}

	points := math.Min(float64(len(certs)), 3) * 0.5
	points += math.Min(float64(len(m.RecognizedCertifications)), 2) * 1.25
	switch {
	case jdRelevant:
		points += 1.0
	case jd == "":
		points += 0.5
	}
	m.CertificationScore = round1(math.Min(points, rubricCap) * rubricScale)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
