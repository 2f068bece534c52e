package media

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	imageRefRe   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	expiresSegRe = regexp.MustCompile(`/[^/]*expires[^/]*`)
)

// StableID derives a deterministic 8-character identifier from a media
// URL. It is used both for cache-file naming and for dedup lookups, so
// the derivation order is a compatibility invariant: changing it
// changes dedup identity for existing caches.
func StableID(rawURL string) string {
	// Notion-hosted files: https://file.notion.so/f/FILE_ID/...
	if parts := strings.SplitN(rawURL, "/f/", 2); len(parts) == 2 {
		if id, _, _ := strings.Cut(parts[1], "/"); id != "" {
			if len(id) > 8 {
				id = id[:8]
			}
			return id
		}
	}

	if strings.Contains(rawURL, "amazonaws.com") {
		// https://bucket.s3.region.amazonaws.com/USER_ID/FILE_ID/...
		parts := strings.Split(rawURL, "/")
		for i, part := range parts {
			if strings.Contains(part, "amazonaws.com") && i+2 < len(parts) {
				if id := parts[i+2]; len(id) >= 8 {
					return id[:8]
				}
				break
			}
		}
	}

	// First path segment that looks like a file id: long enough and
	// mixing letters with digits.
	if parsed, err := url.Parse(rawURL); err == nil {
		for _, part := range strings.Split(parsed.Path, "/") {
			if len(part) >= 8 && hasAlpha(part) && hasDigit(part) {
				return part[:8]
			}
		}
	} else {
		return hashID(rawURL)
	}

	// Hash the stable portion: query string and signed "expires"
	// segments change between fetches of the same asset.
	stableURL, _, _ := strings.Cut(rawURL, "?")
	stableURL = expiresSegRe.ReplaceAllString(stableURL, "")
	return hashID(stableURL)
}

func hashID(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

func hasAlpha(s string) bool {
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, c := range s {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}

// Resolver downloads remote media into a local cache directory and
// rewrites Markdown references to point at it. Files are named
// {ownerSlug}-{stableID}{ext}; a cache hit on the stable id skips the
// download regardless of which entity first fetched the asset.
type Resolver struct {
	// Dir is the cache directory on disk.
	Dir string
	// URLPrefix is the site-relative path the cache is served under,
	// e.g. "/images".
	URLPrefix string

	client *http.Client
	log    *zap.Logger
}

// NewResolver builds a resolver over the given cache directory.
func NewResolver(dir, urlPrefix string, log *zap.Logger) *Resolver {
	return &Resolver{
		Dir:       dir,
		URLPrefix: urlPrefix,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

// ResolveInline rewrites every Markdown image reference with an
// absolute HTTP(S) target to a local cache path, downloading on cache
// miss. The rewrite is a single forward pass over the parsed match
// spans producing a new string. A failure on one image leaves its
// original reference in place and does not stop the pass.
func (r *Resolver) ResolveInline(body, ownerSlug string) string {
	matches := imageRefRe.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		alt := body[m[2]:m[3]]
		target := body[m[4]:m[5]]

		sb.WriteString(body[last:m[0]])
		last = m[1]

		if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
			sb.WriteString(body[m[0]:m[1]])
			continue
		}

		localPath, err := r.resolve(target, ownerSlug)
		if err != nil {
			r.log.Warn("image download failed, keeping remote reference",
				zap.String("url", target), zap.Error(err))
			sb.WriteString(body[m[0]:m[1]])
			continue
		}
		sb.WriteString("![" + alt + "](" + localPath + ")")
	}
	sb.WriteString(body[last:])

	return sb.String()
}

// resolve returns the local path for a remote URL, fetching only when
// no cache file carries the URL's stable id.
func (r *Resolver) resolve(rawURL, ownerSlug string) (string, error) {
	id := StableID(rawURL)

	if existing := r.findExisting(id); existing != "" {
		return r.URLPrefix + "/" + existing, nil
	}

	data, contentType, err := r.fetch(rawURL)
	if err != nil {
		return "", err
	}

	filename := ownerSlug + "-" + id + extFromContentType(contentType)
	if err := r.save(filename, data); err != nil {
		return "", err
	}
	return r.URLPrefix + "/" + filename, nil
}

// ResolveCover downloads a cover image unconditionally; covers are
// refreshed on every run. The extension comes from the URL when it is a
// recognized image type, defaulting to .jpg. Failures propagate so the
// caller can drop the image field from the generated header.
func (r *Resolver) ResolveCover(rawURL, ownerSlug string) (string, error) {
	data, _, err := r.fetch(rawURL)
	if err != nil {
		return "", fmt.Errorf("cover %s: %w", rawURL, err)
	}

	filename := ownerSlug + "-" + StableID(rawURL) + extFromURL(rawURL)
	if err := r.save(filename, data); err != nil {
		return "", fmt.Errorf("cover %s: %w", rawURL, err)
	}
	return r.URLPrefix + "/" + filename, nil
}

func (r *Resolver) findExisting(id string) string {
	matches, err := filepath.Glob(filepath.Join(r.Dir, "*-"+id+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return filepath.Base(matches[0])
}

func (r *Resolver) fetch(rawURL string) ([]byte, string, error) {
	resp, err := r.client.Get(rawURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (r *Resolver) save(filename string, data []byte) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.Dir, filename), data, 0o644)
}

// CleanUnused deletes cache files no current content file references.
// The referenced set holds site-relative paths as they appear in
// generated files, e.g. "/images/slug-abcd1234.jpg".
func (r *Resolver) CleanUnused(referenced map[string]bool) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isImageName(entry.Name()) {
			continue
		}
		if referenced[r.URLPrefix+"/"+entry.Name()] {
			continue
		}
		path := filepath.Join(r.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			r.log.Error("delete unused image", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
		r.log.Info("deleted unused image", zap.String("path", path))
	}
	if removed > 0 {
		r.log.Info("media cache swept", zap.String("dir", r.Dir), zap.Int("removed", removed))
	}
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

func extFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

func extFromURL(rawURL string) string {
	trimmed, _, _ := strings.Cut(rawURL, "?")
	switch ext := strings.ToLower(filepath.Ext(trimmed)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
