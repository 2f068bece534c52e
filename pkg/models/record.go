package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Post type names recognized in the Type select property. Anything else
// is treated as PostTypePost.
const (
	PostTypePost     = "Post"
	PostTypePage     = "Page"
	PostTypeProject  = "Project"
	PostTypeProjects = "Projects"
)

// Record is a read-only view over one Notion page object. Property
// lookups never fail: a missing or malformed property resolves to the
// field's default. The source data is third-party-controlled and
// frequently incomplete, so this is a correctness requirement rather
// than a convenience.
type Record struct {
	ID             string
	CreatedTime    string
	LastEditedTime string

	page  gjson.Result
	props gjson.Result
}

// NewRecord wraps a raw Notion page JSON document.
func NewRecord(raw []byte) Record {
	return recordFromResult(gjson.ParseBytes(raw))
}

func recordFromResult(page gjson.Result) Record {
	return Record{
		ID:             page.Get("id").String(),
		CreatedTime:    page.Get("created_time").String(),
		LastEditedTime: page.Get("last_edited_time").String(),
		page:           page,
		props:          page.Get("properties"),
	}
}

// prop returns the first property present under any of the given names.
func (r Record) prop(names ...string) gjson.Result {
	for _, name := range names {
		if p := r.props.Get(name); p.Exists() {
			return p
		}
	}
	return gjson.Result{}
}

// richText concatenates every text fragment of a rich_text property
// verbatim, with no added separators.
func richText(p gjson.Result, key string) string {
	var sb strings.Builder
	for _, item := range p.Get(key).Array() {
		sb.WriteString(item.Get("text.content").String())
	}
	return sb.String()
}

func selectName(p gjson.Result, fallback string) string {
	if p.Get("type").String() != "select" {
		return fallback
	}
	if name := p.Get("select.name"); name.Exists() {
		return name.String()
	}
	return fallback
}

func multiSelect(p gjson.Result) []string {
	if p.Get("type").String() != "multi_select" {
		return nil
	}
	items := p.Get("multi_select").Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Get("name").String())
	}
	return out
}

// Title joins all title fragments. Empty when the property is absent or
// not of title type.
func (r Record) Title() string {
	p := r.prop("Title", "title")
	if p.Get("type").String() != "title" {
		return ""
	}
	return richText(p, "title")
}

// Valid reports whether the record carries a usable title. Notion emits
// a lone interpunct for untitled placeholder pages.
func (r Record) Valid() bool {
	title := r.Title()
	return title != "" && title != "·"
}

func (r Record) Slug() string {
	p := r.prop("Slug", "slug")
	if p.Get("type").String() != "rich_text" {
		return ""
	}
	return richText(p, "rich_text")
}

func (r Record) Tags() []string {
	tags := multiSelect(r.prop("Tag", "Tags", "tags"))
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r Record) Status() string {
	return selectName(r.prop("Status", "status"), "Draft")
}

// Date returns the Date property's start value, falling back to the
// date portion of the record's creation time.
func (r Record) Date() string {
	p := r.prop("Date", "date")
	if p.Get("type").String() == "date" {
		if start := p.Get("date.start").String(); start != "" {
			return start
		}
	}
	return datePart(r.CreatedTime)
}

func (r Record) Excerpt() string {
	p := r.prop("Excerpt", "excerpt")
	if p.Get("type").String() != "rich_text" {
		return ""
	}
	return richText(p, "rich_text")
}

// Description prefers the excerpt, then a Description property.
func (r Record) Description() string {
	if excerpt := r.Excerpt(); excerpt != "" {
		return excerpt
	}
	p := r.prop("Description", "description")
	if p.Get("type").String() != "rich_text" {
		return ""
	}
	return richText(p, "rich_text")
}

func (r Record) PostType() string {
	return selectName(r.prop("Type", "type"), PostTypePost)
}

// CoverURL returns the page cover image URL, or "" when the page has no
// cover.
func (r Record) CoverURL() string {
	cover := r.page.Get("cover")
	switch cover.Get("type").String() {
	case "external":
		return cover.Get("external.url").String()
	case "file":
		return cover.Get("file.url").String()
	}
	return ""
}

func (r Record) ProjectStatus() string {
	return selectName(r.prop("Project Status", "project_status"), "active")
}

func (r Record) Technologies() []string {
	techs := multiSelect(r.prop("Technologies", "technologies"))
	if techs == nil {
		return []string{}
	}
	return techs
}

func (r Record) ProjectPeriod() string {
	p := r.prop("Period", "period")
	if p.Get("type").String() != "rich_text" {
		return ""
	}
	return richText(p, "rich_text")
}

func urlProp(p gjson.Result) string {
	if p.Get("type").String() != "url" {
		return ""
	}
	return p.Get("url").String()
}

func (r Record) GitHubURL() string {
	return urlProp(r.prop("URL", "GitHub", "github"))
}

func (r Record) DemoURL() string {
	return urlProp(r.prop("Demo", "demo"))
}

func (r Record) ProjectCategory() string {
	return selectName(r.prop("Category", "category"), "")
}

func (r Record) ProjectTypeName() string {
	return selectName(r.prop("ProjectType", "project_type"), "")
}

func (r Record) IsPublished() bool {
	return strings.ToLower(r.Status()) != "draft"
}

func (r Record) IsPage() bool     { return r.PostType() == PostTypePage }
func (r Record) IsProject() bool  { return r.PostType() == PostTypeProject }
func (r Record) IsProjectsPage() bool {
	return r.PostType() == PostTypeProjects
}

// datePart trims an ISO timestamp down to its date portion.
func datePart(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[:i]
	}
	return ts
}

// LastModified is the date portion of the last edit timestamp, used for
// the lastmod front matter key.
func (r Record) LastModified() string {
	return datePart(r.LastEditedTime)
}
