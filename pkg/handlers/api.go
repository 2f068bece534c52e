package handlers

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"notion-hugo/pkg/config"
	"notion-hugo/pkg/hugo"
	"notion-hugo/pkg/services"
	syncpkg "notion-hugo/pkg/sync"
)

// API exposes the sync tool over HTTP: trigger a run, read the project
// data file, preview generated content as HTML.
type API struct {
	cfg      *config.Config
	syncer   *syncpkg.Syncer
	markdown goldmark.Markdown
	log      *zap.Logger
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(cfg *config.Config, syncer *syncpkg.Syncer, log *zap.Logger) *gin.Engine {
	a := &API{
		cfg:      cfg,
		syncer:   syncer,
		markdown: goldmark.New(),
		log:      log,
	}

	r := gin.Default()
	api := r.Group("/api")
	{
		api.POST("/sync", a.HandleSync)
		api.POST("/build", a.HandleBuild)
		api.POST("/publish", a.HandlePublish)
		api.GET("/projects", a.GetProjectsData)
		api.GET("/preview", a.PreviewContent)
		api.GET("/media", a.ListMedia)
	}
	return r
}

// HandleSync runs a full sync and returns the report. Runs are not
// reentrant; callers serialize their requests.
func (a *API) HandleSync(c *gin.Context) {
	report, err := a.syncer.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	if c.Query("clean") == "true" {
		a.syncer.CleanMedia()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "report": report})
}

func (a *API) HandleBuild(c *gin.Context) {
	log, err := services.BuildSite(a.cfg.SiteDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}

func (a *API) HandlePublish(c *gin.Context) {
	log, err := services.PublishSite(a.cfg.SiteDir, a.cfg.GitRemote, a.cfg.GitBranch, a.cfg.GitToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}

// GetProjectsData serves the generated data/projects.json verbatim.
func (a *API) GetProjectsData(c *gin.Context) {
	path := filepath.Join(a.cfg.DataDir(), "projects.json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "projects data not generated yet"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// PreviewContent renders one generated content file's body to HTML.
func (a *API) PreviewContent(c *gin.Context) {
	target := c.Query("path")
	fullPath := services.SafeJoin(a.cfg.ContentDir(), target)
	if target == "" || fullPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
		return
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	meta, body, err := hugo.ParseFile(content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unparsable content file"})
		return
	}

	var html bytes.Buffer
	if err := a.markdown.Convert([]byte(body), &html); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": meta.Title, "slug": meta.Slug, "html": html.String()})
}

// MediaFile describes one cached media asset.
type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ListMedia lists the media cache contents.
func (a *API) ListMedia(c *gin.Context) {
	dirs := map[string]string{
		a.cfg.ImagesDir():        "/images",
		a.cfg.ProjectImagesDir(): "/images/projects",
	}

	files := []MediaFile{}
	for dir, prefix := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, MediaFile{
				Name: entry.Name(),
				Path: prefix + "/" + entry.Name(),
				Size: info.Size(),
			})
		}
	}
	c.JSON(http.StatusOK, files)
}
