package hugo

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var localImageRe = regexp.MustCompile(`/images/[\w./-]+`)

// CleanStaleContent deletes generated files whose recorded slug is not
// in the live set. Section indexes are exempt. A file that fails to
// parse or delete is logged and left alone; the sweep continues.
func (w *Writer) CleanStaleContent(liveSlugs map[string]bool) {
	for _, dir := range []string{w.ContentDir, w.PagesDir, w.ProjectPagesDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == "_index.md" {
				continue
			}

			path := filepath.Join(dir, name)
			slug := recordedSlug(path)
			if slug == "" || liveSlugs[slug] {
				continue
			}

			if err := os.Remove(path); err != nil {
				w.log.Error("delete stale file", zap.String("path", path), zap.Error(err))
				continue
			}
			w.log.Warn("deleted stale content file", zap.String("path", path), zap.String("slug", slug))
		}
	}
}

// recordedSlug reads the slug a generated file was written with,
// falling back to the file stem.
func recordedSlug(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return strings.TrimSuffix(filepath.Base(path), ".md")
	}
	meta, _, err := ParseFile(content)
	if err != nil || meta.Slug == "" {
		return strings.TrimSuffix(filepath.Base(path), ".md")
	}
	return meta.Slug
}

// CollectImageRefs scans every content file under root for local media
// references, both inline image links and cover paths in the header.
func (w *Writer) CollectImageRefs(root string) map[string]bool {
	referenced := map[string]bool{}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			w.log.Error("read content file", zap.String("path", path), zap.Error(err))
			return nil
		}
		for _, ref := range localImageRe.FindAllString(string(content), -1) {
			referenced[ref] = true
		}
		return nil
	})
	return referenced
}
