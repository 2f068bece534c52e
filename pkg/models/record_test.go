package models

import (
	"reflect"
	"testing"
)

func TestEmptyPropertiesDefault(t *testing.T) {
	record := NewRecord([]byte(`{
		"id": "abc-123",
		"created_time": "2024-01-02T03:04:05.000Z",
		"last_edited_time": "2024-02-03T04:05:06.000Z",
		"properties": {}
	}`))

	if got := record.Status(); got != "Draft" {
		t.Errorf("Status = %q, want Draft", got)
	}
	if record.IsPublished() {
		t.Error("IsPublished = true for defaulted status")
	}
	if got := record.Tags(); len(got) != 0 {
		t.Errorf("Tags = %v, want empty", got)
	}
	if got := record.PostType(); got != PostTypePost {
		t.Errorf("PostType = %q, want Post", got)
	}
	if got := record.Date(); got != "2024-01-02" {
		t.Errorf("Date = %q, want creation date fallback", got)
	}
	if got := record.LastModified(); got != "2024-02-03" {
		t.Errorf("LastModified = %q, want 2024-02-03", got)
	}
}

func TestMalformedPropertiesDefault(t *testing.T) {
	// Wrong shapes everywhere; accessors must not care.
	record := NewRecord([]byte(`{
		"id": "abc",
		"created_time": "2024-05-06T00:00:00Z",
		"properties": {
			"Title": {"type": "rich_text"},
			"Status": {"type": "select", "select": null},
			"Tags": {"type": "select"},
			"Date": {"type": "date", "date": null}
		}
	}`))

	if got := record.Title(); got != "" {
		t.Errorf("Title = %q, want empty", got)
	}
	if got := record.Status(); got != "Draft" {
		t.Errorf("Status = %q, want Draft", got)
	}
	if got := record.Tags(); len(got) != 0 {
		t.Errorf("Tags = %v, want empty", got)
	}
	if got := record.Date(); got != "2024-05-06" {
		t.Errorf("Date = %q, want fallback date", got)
	}
}

func TestTitleAggregatesFragments(t *testing.T) {
	record := NewRecord([]byte(`{
		"id": "abc",
		"properties": {
			"Title": {"type": "title", "title": [
				{"text": {"content": "Hello "}},
				{"text": {"content": "World"}}
			]}
		}
	}`))

	if got := record.Title(); got != "Hello World" {
		t.Errorf("Title = %q, want %q", got, "Hello World")
	}
}

func TestLowercasePropertyNameFallback(t *testing.T) {
	record := NewRecord([]byte(`{
		"id": "abc",
		"properties": {
			"title": {"type": "title", "title": [{"text": {"content": "lower"}}]},
			"status": {"type": "select", "select": {"name": "Published"}},
			"tags": {"type": "multi_select", "multi_select": [{"name": "go"}, {"name": "hugo"}]}
		}
	}`))

	if got := record.Title(); got != "lower" {
		t.Errorf("Title = %q, want lower", got)
	}
	if got := record.Status(); got != "Published" {
		t.Errorf("Status = %q, want Published", got)
	}
	if !record.IsPublished() {
		t.Error("IsPublished = false for Published status")
	}
	if got := record.Tags(); !reflect.DeepEqual(got, []string{"go", "hugo"}) {
		t.Errorf("Tags = %v", got)
	}
}

func TestValidRejectsPlaceholderTitles(t *testing.T) {
	for _, title := range []string{"", "·"} {
		raw := `{"id": "x", "properties": {"Title": {"type": "title", "title": [{"text": {"content": "` + title + `"}}]}}}`
		if NewRecord([]byte(raw)).Valid() {
			t.Errorf("Valid = true for title %q", title)
		}
	}
}

func TestCoverURL(t *testing.T) {
	external := NewRecord([]byte(`{"id": "x", "cover": {"type": "external", "external": {"url": "https://example.com/a.png"}}}`))
	if got := external.CoverURL(); got != "https://example.com/a.png" {
		t.Errorf("external CoverURL = %q", got)
	}

	hosted := NewRecord([]byte(`{"id": "x", "cover": {"type": "file", "file": {"url": "https://file.notion.so/f/abc/x.png"}}}`))
	if got := hosted.CoverURL(); got != "https://file.notion.so/f/abc/x.png" {
		t.Errorf("file CoverURL = %q", got)
	}

	none := NewRecord([]byte(`{"id": "x"}`))
	if got := none.CoverURL(); got != "" {
		t.Errorf("missing CoverURL = %q, want empty", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Cool, Project!":  "my-cool-project",
		"  spaced   out  ":   "spaced-out",
		"already-slugged":    "already-slugged",
		"Parens (removed)":   "parens-removed",
	}
	for title, want := range cases {
		if got := Slugify(title); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestProjectSlugFallback(t *testing.T) {
	record := NewRecord([]byte(`{
		"id": "p1",
		"properties": {
			"Title": {"type": "title", "title": [{"text": {"content": "My Cool, Project!"}}]},
			"Type": {"type": "select", "select": {"name": "Project"}}
		}
	}`))
	project := NewProject(record)

	if got := project.Slug(); got != "my-cool-project" {
		t.Errorf("Slug = %q, want my-cool-project", got)
	}
}

func TestProjectExplicitSlugWins(t *testing.T) {
	record := NewRecord([]byte(`{
		"id": "p1",
		"properties": {
			"Title": {"type": "title", "title": [{"text": {"content": "Anything"}}]},
			"Slug": {"type": "rich_text", "rich_text": [{"text": {"content": "explicit"}}]}
		}
	}`))

	if got := NewProject(record).Slug(); got != "explicit" {
		t.Errorf("Slug = %q, want explicit", got)
	}
}

func TestProjectIsActive(t *testing.T) {
	status := func(name string) Project {
		raw := `{"id": "x", "properties": {"Status": {"type": "select", "select": {"name": "` + name + `"}}}}`
		return NewProject(NewRecord([]byte(raw)))
	}

	if status("Draft").IsActive() {
		t.Error("draft project reported active")
	}
	if status("Archived").IsActive() {
		t.Error("archived project reported active")
	}
	if !status("Live").IsActive() {
		t.Error("live project reported inactive")
	}
}

func TestProjectSummaryUnifiesTechnologiesWithTags(t *testing.T) {
	record := NewRecord([]byte(`{
		"id": "p1",
		"properties": {
			"Title": {"type": "title", "title": [{"text": {"content": "Tool"}}]},
			"Tags": {"type": "multi_select", "multi_select": [{"name": "go"}]}
		}
	}`))
	summary := NewProject(record).Summary()

	if !reflect.DeepEqual(summary.Technologies, summary.Tags) {
		t.Errorf("Technologies %v != Tags %v", summary.Technologies, summary.Tags)
	}
	if summary.Slug != "tool" {
		t.Errorf("Slug = %q, want tool", summary.Slug)
	}
}
