package sync

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"notion-hugo/pkg/models"
)

// Listings longer than this are summarized by counts only.
const summaryTableLimit = 10

func (s *Syncer) showPostsSummary(posts []models.Record) {
	if len(posts) == 0 {
		s.log.Info("no posts found")
		return
	}

	published := 0
	for _, record := range posts {
		if record.IsPublished() {
			published++
		}
	}
	s.log.Info("posts to sync",
		zap.Int("published", published),
		zap.Int("drafts", len(posts)-published),
		zap.Int("total", len(posts)))

	if len(posts) > summaryTableLimit {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(s.out)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Posts")
	tw.AppendHeader(table.Row{"Title", "Status", "Tags"})
	for _, record := range posts {
		status := "draft"
		if record.IsPublished() {
			status = "published"
		}
		tags := strings.Join(record.Tags(), ", ")
		if tags == "" {
			tags = "-"
		}
		tw.AppendRow(table.Row{record.Title(), status, tags})
	}
	tw.Render()
}

func (s *Syncer) showProjectsSummary(projects []models.Project) {
	if len(projects) == 0 {
		s.log.Info("no projects found")
		return
	}

	active := 0
	for _, project := range projects {
		if project.IsActive() {
			active++
		}
	}
	s.log.Info("projects to sync",
		zap.Int("active", active),
		zap.Int("inactive", len(projects)-active),
		zap.Int("total", len(projects)))

	if len(projects) > summaryTableLimit {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(s.out)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Projects")
	tw.AppendHeader(table.Row{"Title", "Status", "Category", "Technologies"})
	for _, project := range projects {
		status := "inactive"
		if project.IsActive() {
			status = "active"
		}
		category := project.Category()
		if category == "" {
			category = "uncategorized"
		}
		tw.AppendRow(table.Row{project.Title(), status, category, shortTechList(project.Technologies())})
	}
	tw.Render()
}

func shortTechList(techs []string) string {
	if len(techs) == 0 {
		return "-"
	}
	if len(techs) <= 3 {
		return strings.Join(techs, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(techs[:3], ", "), len(techs)-3)
}
