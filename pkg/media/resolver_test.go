package media

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestStableIDNotionFileURL(t *testing.T) {
	got := StableID("https://file.notion.so/f/abcdef1234567890/photo/img.png?expires=12345")
	if got != "abcdef12" {
		t.Errorf("StableID = %q, want abcdef12", got)
	}
}

func TestStableIDS3URL(t *testing.T) {
	got := StableID("https://prod-files-secure.s3.us-west-2.amazonaws.com/user123456/fileid9876543/img.png")
	if got != "fileid98" {
		t.Errorf("StableID = %q, want fileid98", got)
	}
}

func TestStableIDPathSegmentScan(t *testing.T) {
	got := StableID("https://cdn.example.com/abc123def456/img.png")
	if got != "abc123de" {
		t.Errorf("StableID = %q, want abc123de", got)
	}
}

func TestStableIDDeterministic(t *testing.T) {
	url := "https://cdn.example.com/img/photo.png"
	if StableID(url) != StableID(url) {
		t.Error("StableID not stable across calls")
	}
	if len(StableID(url)) != 8 {
		t.Errorf("StableID length = %d, want 8", len(StableID(url)))
	}
}

func TestStableIDIgnoresQueryString(t *testing.T) {
	a := StableID("https://cdn.example.com/img/photo.png?signature=one&ts=1")
	b := StableID("https://cdn.example.com/img/photo.png?signature=two&ts=2")
	if a != b {
		t.Errorf("StableID differs across query strings: %q vs %q", a, b)
	}
}

func newTestResolver(t *testing.T, handler http.Handler) (*Resolver, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewResolver(t.TempDir(), "/images", zap.NewNop()), srv
}

func imageServer(fetches *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		*fetches++
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})
}

func TestResolveInlineDedup(t *testing.T) {
	fetches := 0
	resolver, srv := newTestResolver(t, imageServer(&fetches))

	url := srv.URL + "/f/abcdef1234567890/img.png"
	body := "![one](" + url + ")\n\n![two](" + url + ")"

	got := resolver.ResolveInline(body, "my-post")
	want := "![one](/images/my-post-abcdef12.png)\n\n![two](/images/my-post-abcdef12.png)"
	if got != want {
		t.Errorf("ResolveInline = %q, want %q", got, want)
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetches)
	}

	// A later pass, even for a different owner, reuses the cache file.
	got = resolver.ResolveInline("![again]("+url+")", "other-post")
	if got != "![again](/images/my-post-abcdef12.png)" {
		t.Errorf("second pass = %q", got)
	}
	if fetches != 1 {
		t.Errorf("fetches after reuse = %d, want 1", fetches)
	}
}

func TestResolveInlineFailureIsolation(t *testing.T) {
	fetches := 0
	resolver, srv := newTestResolver(t, imageServer(&fetches))

	good1 := srv.URL + "/f/aaaa111122223333/img.png"
	bad := srv.URL + "/f/bad0000011111111/img.png"
	good2 := srv.URL + "/f/bbbb111122223333/img.png"
	body := "![a](" + good1 + ")\n\n![b](" + bad + ")\n\n![c](" + good2 + ")"

	got := resolver.ResolveInline(body, "post")
	want := "![a](/images/post-aaaa1111.png)\n\n![b](" + bad + ")\n\n![c](/images/post-bbbb1111.png)"
	if got != want {
		t.Errorf("ResolveInline = %q, want %q", got, want)
	}
}

func TestResolveInlineLeavesLocalReferences(t *testing.T) {
	resolver := NewResolver(t.TempDir(), "/images", zap.NewNop())
	body := "![local](/images/existing.png) and ![rel](files/pic.jpg)"
	if got := resolver.ResolveInline(body, "post"); got != body {
		t.Errorf("local references rewritten: %q", got)
	}
}

func TestResolveCover(t *testing.T) {
	fetches := 0
	resolver, srv := newTestResolver(t, imageServer(&fetches))

	url := srv.URL + "/f/cccc111122223333/cover.webp"
	path, err := resolver.ResolveCover(url, "post")
	if err != nil {
		t.Fatalf("ResolveCover: %v", err)
	}
	if path != "/images/post-cccc1111.webp" {
		t.Errorf("cover path = %q", path)
	}

	// Covers always re-download, no dedup.
	if _, err := resolver.ResolveCover(url, "post"); err != nil {
		t.Fatalf("second ResolveCover: %v", err)
	}
	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}

func TestResolveCoverPropagatesFailure(t *testing.T) {
	resolver, srv := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	if _, err := resolver.ResolveCover(srv.URL+"/f/dddd111122223333/c.jpg", "post"); err == nil {
		t.Fatal("expected error for non-2xx cover fetch")
	}
}

func TestCleanUnused(t *testing.T) {
	dir := t.TempDir()
	resolver := NewResolver(dir, "/images", zap.NewNop())

	for _, name := range []string{"live-aaaa1111.png", "stale-bbbb2222.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	resolver.CleanUnused(map[string]bool{"/images/live-aaaa1111.png": true})

	if _, err := os.Stat(filepath.Join(dir, "live-aaaa1111.png")); err != nil {
		t.Error("referenced image deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "stale-bbbb2222.jpg")); !os.IsNotExist(err) {
		t.Error("unreferenced image survived sweep")
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("non-image file removed by sweep")
	}
}
