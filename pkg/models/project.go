package models

import (
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, strip
// everything outside word characters, whitespace and hyphens, collapse
// whitespace and hyphen runs to a single hyphen, trim leading and
// trailing hyphens.
func Slugify(title string) string {
	slug := slugStripRe.ReplaceAllString(strings.ToLower(title), "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Project is the project-flavored view of a record. Fields are unified
// with the post view; technologies mirror the tag set.
type Project struct {
	Record
}

// NewProject wraps a record classified as a project.
func NewProject(r Record) Project {
	return Project{Record: r}
}

// Slug returns the explicit slug, deriving one from the title when the
// property is empty.
func (p Project) Slug() string {
	if slug := p.Record.Slug(); slug != "" {
		return slug
	}
	return Slugify(p.Title())
}

// Technologies are unified with tags for projects.
func (p Project) Technologies() []string {
	return p.Tags()
}

func (p Project) Period() string   { return p.ProjectPeriod() }
func (p Project) Category() string { return p.ProjectCategory() }
func (p Project) ProjectType() string {
	return p.ProjectTypeName()
}

// IsActive reports whether the project should be surfaced; drafts and
// archived projects are not.
func (p Project) IsActive() bool {
	switch strings.ToLower(p.Status()) {
	case "draft", "archived":
		return false
	}
	return true
}

// ProjectSummary is one entry of data/projects.json. Field order is the
// file's key order and must stay stable.
type ProjectSummary struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Technologies []string `json:"technologies"`
	Tags         []string `json:"tags"`
	GitHub       string   `json:"github"`
	Demo         string   `json:"demo"`
	Period       string   `json:"period"`
	Category     string   `json:"category"`
	Cover        string   `json:"cover"`
	Slug         string   `json:"slug"`
	Date         string   `json:"date"`
	Excerpt      string   `json:"excerpt"`
	ProjectType  string   `json:"project_type"`
}

// Summary flattens the project for the site generator's data file.
func (p Project) Summary() ProjectSummary {
	return ProjectSummary{
		Title:        p.Title(),
		Description:  p.Description(),
		Status:       p.Status(),
		Technologies: p.Technologies(),
		Tags:         p.Tags(),
		GitHub:       p.GitHubURL(),
		Demo:         p.DemoURL(),
		Period:       p.Period(),
		Category:     p.Category(),
		Cover:        p.CoverURL(),
		Slug:         p.Slug(),
		Date:         p.Date(),
		Excerpt:      p.Excerpt(),
		ProjectType:  p.ProjectType(),
	}
}
