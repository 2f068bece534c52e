package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"notion-hugo/pkg/config"
	"notion-hugo/pkg/hugo"
	"notion-hugo/pkg/media"
	"notion-hugo/pkg/models"
	"notion-hugo/pkg/notion"
)

// Source is the remote record provider. Implementations return records
// sorted by last edit time descending.
type Source interface {
	ListRecords(ctx context.Context) ([]models.Record, error)
	GetBlocks(ctx context.Context, recordID string) ([]notion.Block, error)
}

// Report summarizes one sync run. The run is best-effort: per-item
// failures are collected here, not propagated.
type Report struct {
	PostsGenerated    int      `json:"posts_generated"`
	ProjectsGenerated int      `json:"projects_generated"`
	Errors            []string `json:"errors,omitempty"`
}

// Syncer drives a full regeneration of the content tree from the
// source. One record is processed to completion at a time; concurrent
// runs must be serialized externally.
type Syncer struct {
	cfg    *config.Config
	source Source
	writer *hugo.Writer

	postMedia    *media.Resolver
	projectMedia *media.Resolver

	log *zap.Logger
	out io.Writer
}

// New wires a syncer over the configured content tree.
func New(cfg *config.Config, source Source, log *zap.Logger) *Syncer {
	return &Syncer{
		cfg:          cfg,
		source:       source,
		writer:       hugo.NewWriter(cfg.ContentDir(), cfg.PagesDir(), cfg.ProjectPagesDir(), cfg.DataDir(), log),
		postMedia:    media.NewResolver(cfg.ImagesDir(), "/images", log),
		projectMedia: media.NewResolver(cfg.ProjectImagesDir(), "/images/projects", log),
		log:          log,
		out:          os.Stdout,
	}
}

// SetOutput redirects the summary tables, primarily for tests.
func (s *Syncer) SetOutput(w io.Writer) { s.out = w }

// Run executes one sync. The returned error covers run-level
// orchestration only; individual item failures land in the report.
func (s *Syncer) Run(ctx context.Context) (Report, error) {
	var report Report

	if err := s.resetOutputDirs(); err != nil {
		return report, fmt.Errorf("reset output dirs: %w", err)
	}

	records, err := s.source.ListRecords(ctx)
	if err != nil {
		s.log.Error("listing records failed", zap.Error(err))
		records = nil
	}

	var posts []models.Record
	var projects []models.Project
	for _, record := range records {
		switch {
		case record.IsProject():
			projects = append(projects, models.NewProject(record))
		case record.IsProjectsPage():
			// Superseded by the generated collection index.
		default:
			posts = append(posts, record)
		}
	}

	s.showPostsSummary(posts)
	s.showProjectsSummary(projects)

	for _, record := range posts {
		if err := s.generatePost(ctx, record); err != nil {
			s.log.Error("post generation failed", zap.String("title", record.Title()), zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", record.Title(), err))
			continue
		}
		report.PostsGenerated++
	}

	if len(projects) > 0 {
		if err := s.writer.WriteProjectIndex(projects); err != nil {
			s.log.Error("project index generation failed", zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("project index: %v", err))
		}
		for _, project := range projects {
			if err := s.generateProject(ctx, project); err != nil {
				s.log.Error("project generation failed", zap.String("title", project.Title()), zap.Error(err))
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", project.Title(), err))
				continue
			}
			report.ProjectsGenerated++
		}
		if err := s.writer.WriteProjectsData(projects); err != nil {
			s.log.Error("projects data generation failed", zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("projects data: %v", err))
		}
	}

	if err := s.writer.EnsureIndex(); err != nil {
		s.log.Error("index scaffold failed", zap.Error(err))
	}

	s.writer.CleanStaleContent(s.liveSlugs(posts, projects))

	s.log.Info("sync finished",
		zap.Int("posts", report.PostsGenerated),
		zap.Int("projects", report.ProjectsGenerated),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

// CleanMedia removes cached images no generated file references. Run it
// only after a successful sync so the reference scan sees the full
// regenerated tree.
func (s *Syncer) CleanMedia() {
	referenced := s.writer.CollectImageRefs(s.cfg.ContentDir())
	s.projectMedia.CleanUnused(referenced)
	s.postMedia.CleanUnused(referenced)
}

func (s *Syncer) generatePost(ctx context.Context, record models.Record) error {
	blocks, err := s.source.GetBlocks(ctx, record.ID)
	if err != nil {
		// Body fetch failures degrade to an empty body; the record
		// itself is still written so its metadata stays live.
		s.log.Warn("fetching blocks failed", zap.String("title", record.Title()), zap.Error(err))
		blocks = nil
	}

	slug := record.Slug()
	if slug == "" {
		slug = models.Slugify(record.Title())
	}

	body := notion.RenderBlocks(blocks)
	body = s.postMedia.ResolveInline(body, slug)

	coverPath := ""
	if coverURL := record.CoverURL(); coverURL != "" {
		coverPath, err = s.postMedia.ResolveCover(coverURL, slug)
		if err != nil {
			s.log.Warn("cover download failed, writing without image", zap.String("title", record.Title()), zap.Error(err))
			coverPath = ""
		}
	}

	_, err = s.writer.WritePost(record, body, coverPath)
	return err
}

func (s *Syncer) generateProject(ctx context.Context, project models.Project) error {
	blocks, err := s.source.GetBlocks(ctx, project.ID)
	if err != nil {
		s.log.Warn("fetching blocks failed", zap.String("title", project.Title()), zap.Error(err))
		blocks = nil
	}

	slug := project.Slug()
	body := notion.RenderBlocks(blocks)
	body = s.projectMedia.ResolveInline(body, slug)

	coverPath := ""
	if coverURL := project.CoverURL(); coverURL != "" {
		coverPath, err = s.projectMedia.ResolveCover(coverURL, slug)
		if err != nil {
			s.log.Warn("cover download failed, writing without image", zap.String("title", project.Title()), zap.Error(err))
			coverPath = ""
		}
	}

	_, err = s.writer.WriteProject(project, body, coverPath)
	return err
}

// resetOutputDirs empties the fully regenerated output areas: posts at
// the top of the content dir, the data dir, and the project pages dir.
// The pages dir is left for the stale sweep so hand-placed page assets
// survive a run.
func (s *Syncer) resetOutputDirs() error {
	contentDir := s.cfg.ContentDir()
	entries, err := os.ReadDir(contentDir)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == "_index.md" {
				continue
			}
			if err := os.Remove(filepath.Join(contentDir, name)); err != nil {
				return err
			}
		}
	}

	for _, dir := range []string{s.cfg.DataDir(), s.cfg.ProjectPagesDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.MkdirAll(contentDir, 0o755)
}

func (s *Syncer) liveSlugs(posts []models.Record, projects []models.Project) map[string]bool {
	live := make(map[string]bool, len(posts)+len(projects))
	for _, record := range posts {
		slug := record.Slug()
		if slug == "" {
			slug = models.Slugify(record.Title())
		}
		live[slug] = true
	}
	for _, project := range projects {
		live[project.Slug()] = true
	}
	return live
}
