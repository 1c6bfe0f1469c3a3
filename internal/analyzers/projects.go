package analyzers

import (
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// ProjectMetrics summarises the projects section.
type ProjectMetrics struct {
	Count         int      `json:"count"`
	Titles        []string `json:"titles"`
	WithTechStack int      `json:"with_tech_stack"`
	WithMetrics   int      `json:"with_metrics"`
	WithLinks     int      `json:"with_links"`
	BulletCount   int      `json:"bullet_count"`
	Bullets       []string `json:"bullets"`
	Issues        []string `json:"issues"`
}

type projectEntry struct {
	title   string
	body    string
	bullets []string
}

// AnalyzeProjects extracts project count and depth signals.
func AnalyzeProjects(data *types.ResumeData, sec *types.SectionAnalysis) ProjectMetrics {
	m := ProjectMetrics{Titles: []string{}, Bullets: []string{}, Issues: []string{}}

	entries := projectEntries(data, sec)
	r := tables()
	for _, e := range entries {
		m.Count++
		m.Titles = append(m.Titles, e.title)
		m.BulletCount += len(e.bullets)
		m.Bullets = append(m.Bullets, e.bullets...)

		full := e.title + "\n" + e.body
		for _, kw := range r.Tech.AllKeywords() {
			if rubric.ContainsTerm(full, kw) {
				m.WithTechStack++
				break
			}
		}
		if r.Metrics.HasMetric(e.body) {
			m.WithMetrics++
		}
		lower := strings.ToLower(full)
		if strings.Contains(lower, "github.com") || strings.Contains(lower, "http") || rubric.ContainsTerm(lower, "demo") {
			m.WithLinks++
		}
	}

	switch {
	case m.Count == 0:
		m.Issues = append(m.Issues, "No projects listed")
	default:
		if m.WithTechStack < m.Count {
			m.Issues = append(m.Issues, "Some projects do not name their tech stack")
		}
		if m.WithMetrics == 0 {
			m.Issues = append(m.Issues, "No project shows a measurable outcome")
		}
		if m.WithLinks == 0 {
			m.Issues = append(m.Issues, "Add repository or demo links to projects")
		}
	}
	return m
}

func projectEntries(data *types.ResumeData, sec *types.SectionAnalysis) []projectEntry {
	if data != nil && len(data.Projects) > 0 {
		entries := make([]projectEntry, 0, len(data.Projects))
		for _, p := range data.Projects {
			body := strings.Join(p.Bullets, "\n")
			if len(p.TechStack) > 0 {
				body += "\n" + strings.Join(p.TechStack, ", ")
			}
			entries = append(entries, projectEntry{title: p.Title, body: body, bullets: p.Bullets})
		}
		return entries
	}

	var entries []projectEntry
	for _, line := range splitLines(sec.Content(types.SectionProjects)) {
		if !sections.IsBullet(line) {
			// A long plain line after a title is a description, not a new project.
			if len(entries) > 0 && WordCount(line) >= 8 {
				entries[len(entries)-1].body += line + "\n"
				continue
			}
			entries = append(entries, projectEntry{title: line})
			continue
		}
		if len(entries) == 0 {
			entries = append(entries, projectEntry{title: "Untitled project"})
		}
		current := &entries[len(entries)-1]
		b := sections.StripBullet(line)
		current.bullets = append(current.bullets, b)
		current.body += b + "\n"
	}
	return entries
}
