package hugo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"notion-hugo/pkg/models"
)

// Writer persists classified records as Hugo content files. Every write
// is a full overwrite; the on-disk tree is regenerated from source on
// each run.
type Writer struct {
	ContentDir      string
	PagesDir        string
	ProjectPagesDir string
	DataDir         string

	log *zap.Logger
}

// NewWriter builds a writer over the content tree roots.
func NewWriter(contentDir, pagesDir, projectPagesDir, dataDir string, log *zap.Logger) *Writer {
	return &Writer{
		ContentDir:      contentDir,
		PagesDir:        pagesDir,
		ProjectPagesDir: projectPagesDir,
		DataDir:         dataDir,
		log:             log,
	}
}

// route picks the destination and layout for a post or page record.
// The post_type comparison is case-insensitive: Notion select values
// are user-edited and arrive in either case.
func (w *Writer) route(rec models.Record, slug string) (string, string) {
	postType := rec.PostType()
	switch {
	case strings.EqualFold(postType, "project"):
		return filepath.Join(w.ProjectPagesDir, slug+".md"), "single-project"
	case strings.EqualFold(postType, "projects"):
		return filepath.Join(w.PagesDir, slug+".md"), "projects"
	case rec.IsPage():
		return filepath.Join(w.PagesDir, slug+".md"), ""
	default:
		return filepath.Join(w.ContentDir, slug+".md"), ""
	}
}

// baseFrontMatter builds the required header keys shared by every
// generated file, in their fixed order.
func baseFrontMatter(rec models.Record, slug string) FrontMatter {
	return FrontMatter{}.
		Append("title", rec.Title()).
		Append("date", rec.Date()).
		Append("lastmod", rec.LastModified()).
		Append("slug", slug).
		Append("tags", rec.Tags()).
		Append("draft", !rec.IsPublished()).
		Append("summary", rec.Excerpt()).
		Append("description", rec.Description()).
		Append("notion_id", rec.ID).
		Append("type", rec.PostType())
}

func appendOptional(fm FrontMatter, key, value string) FrontMatter {
	if value == "" {
		return fm
	}
	return fm.Append(key, value)
}

// WritePost persists a post or page record and returns the file path.
func (w *Writer) WritePost(rec models.Record, body, coverPath string) (string, error) {
	slug := rec.Slug()
	if slug == "" {
		slug = models.Slugify(rec.Title())
	}

	path, layout := w.route(rec, slug)
	fm := baseFrontMatter(rec, slug)

	if strings.EqualFold(rec.PostType(), "project") {
		fm = appendOptional(fm, "status", rec.ProjectStatus())
		if techs := rec.Technologies(); len(techs) > 0 {
			fm = fm.Append("technologies", techs)
		}
		fm = appendOptional(fm, "period", rec.ProjectPeriod())
		fm = appendOptional(fm, "github", rec.GitHubURL())
		fm = appendOptional(fm, "demo", rec.DemoURL())
		fm = appendOptional(fm, "category", rec.ProjectCategory())
	}

	fm = appendOptional(fm, "image", coverPath)
	fm = appendOptional(fm, "layout", layout)

	if err := w.writeFile(path, fm, body); err != nil {
		return "", err
	}
	w.log.Info("generated content file", zap.String("path", path), zap.String("title", rec.Title()))
	return path, nil
}

// WriteProject persists a project detail page under the project pages
// directory.
func (w *Writer) WriteProject(project models.Project, body, coverPath string) (string, error) {
	slug := project.Slug()
	path := filepath.Join(w.ProjectPagesDir, slug+".md")

	fm := baseFrontMatter(project.Record, slug)
	fm = appendOptional(fm, "status", project.Status())
	if techs := project.Technologies(); len(techs) > 0 {
		fm = fm.Append("technologies", techs)
	}
	fm = appendOptional(fm, "period", project.Period())
	fm = appendOptional(fm, "github", project.GitHubURL())
	fm = appendOptional(fm, "demo", project.DemoURL())
	fm = appendOptional(fm, "category", project.Category())
	fm = appendOptional(fm, "image", coverPath)
	fm = fm.Append("layout", "single-project")

	if err := w.writeFile(path, fm, body); err != nil {
		return "", err
	}
	w.log.Info("generated project file", zap.String("path", path), zap.String("title", project.Title()))
	return path, nil
}

// WriteProjectIndex generates the collection page listing every project
// grouped by category.
func (w *Writer) WriteProjectIndex(projects []models.Project) error {
	fm := FrontMatter{}.
		Append("title", "Projects").
		Append("layout", "projects").
		Append("type", "projects").
		Append("menu", map[string]any{
			"main": map[string]any{"name": "Projects", "weight": 20},
		})

	var sb strings.Builder
	sb.WriteString("# Projects\n\nA selection of things I have built.\n\n")

	// Group by category preserving first-seen order.
	var order []string
	grouped := map[string][]models.Project{}
	for _, project := range projects {
		category := project.Category()
		if category == "" {
			category = "Other"
		}
		if _, ok := grouped[category]; !ok {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], project)
	}

	for _, category := range order {
		sb.WriteString("## " + category + "\n\n")
		for _, project := range grouped[category] {
			sb.WriteString(fmt.Sprintf("- **[%s](%s/)**: %s\n", project.Title(), project.Slug(), project.Description()))
			if techs := project.Technologies(); len(techs) > 0 {
				sb.WriteString("  - Technologies: " + strings.Join(techs, ", ") + "\n")
			}
			if github := project.GitHubURL(); github != "" {
				sb.WriteString("  - [GitHub](" + github + ")\n")
			}
			if demo := project.DemoURL(); demo != "" {
				sb.WriteString("  - [Live demo](" + demo + ")\n")
			}
			sb.WriteString("\n")
		}
	}

	path := filepath.Join(w.ProjectPagesDir, "_index.md")
	if err := w.writeFile(path, fm, strings.TrimRight(sb.String(), "\n")); err != nil {
		return err
	}
	w.log.Info("generated project index", zap.String("path", path), zap.Int("projects", len(projects)))
	return nil
}

// WriteProjectsData emits data/projects.json, one summary object per
// project in listing order.
func (w *Writer) WriteProjectsData(projects []models.Project) error {
	summaries := make([]models.ProjectSummary, 0, len(projects))
	for _, project := range projects {
		summaries = append(summaries, project.Summary())
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal projects data: %w", err)
	}

	if err := os.MkdirAll(w.DataDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(w.DataDir, "projects.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.log.Info("generated projects data", zap.String("path", path))
	return nil
}

// EnsureIndex scaffolds content/_index.md the first time the tool runs
// against an empty site. An existing index is never touched.
func (w *Writer) EnsureIndex() error {
	path := filepath.Join(w.ContentDir, "_index.md")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	fm := FrontMatter{}.Append("title", "Home")
	body := "Content on this site is synced from Notion and rendered with Hugo.\n\n## Recent posts\n\n{{< recent_posts >}}"
	return w.writeFile(path, fm, body)
}

func (w *Writer) writeFile(path string, fm FrontMatter, body string) error {
	content, err := Encode(fm, body)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
