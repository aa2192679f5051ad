package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/models"
)

const (
	DefaultPublicBaseURL = "https://alolot.kr"

	sitemapNS      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapImageNS = "http://www.google.com/schemas/sitemap-image/1.1"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	ImageNS string       `xml:"xmlns:image,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string         `xml:"loc"`
	LastMod    string         `xml:"lastmod,omitempty"`
	ChangeFreq string         `xml:"changefreq,omitempty"`
	Priority   string         `xml:"priority,omitempty"`
	Images     []sitemapImage `xml:"image:image"`
}

type sitemapImage struct {
	Loc string `xml:"image:loc"`
}

var staticPages = []sitemapURL{
	{Loc: "/", ChangeFreq: "weekly", Priority: "1.0"},
	{Loc: "/about", ChangeFreq: "monthly", Priority: "0.6"},
	{Loc: "/projects", ChangeFreq: "daily", Priority: "0.8"},
}

// ProjectLister is the project source of the sitemap.
type ProjectLister interface {
	FindAll(ctx context.Context) ([]models.Project, error)
}

type SitemapGenerator struct {
	projects ProjectLister
	baseURL  string
	logger   zerolog.Logger
}

func NewSitemapGenerator(projects ProjectLister, baseURL string) *SitemapGenerator {
	if baseURL == "" {
		baseURL = DefaultPublicBaseURL
	}
	return &SitemapGenerator{
		projects: projects,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   log.With().Str("service", "sitemap").Logger(),
	}
}

// Build renders the sitemap of the static pages and every project.
func (g *SitemapGenerator) Build(ctx context.Context) ([]byte, error) {
	projects, err := g.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return BuildSitemap(g.baseURL, projects)
}

// WriteFile renders the sitemap to path. The file is replaced atomically, so
// a failed run leaves the previous sitemap in place.
func (g *SitemapGenerator) WriteFile(ctx context.Context, path string) (int, error) {
	projects, err := g.projects.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load projects: %w", err)
	}
	data, err := BuildSitemap(g.baseURL, projects)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create sitemap dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sitemap-*.xml")
	if err != nil {
		return 0, fmt.Errorf("create temp sitemap: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write sitemap: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close sitemap: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, fmt.Errorf("chmod sitemap: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replace sitemap: %w", err)
	}
	return len(projects), nil
}

// Generate writes the sitemap and logs the outcome. Failures never
// propagate: the site keeps serving the last good sitemap.
func (g *SitemapGenerator) Generate(ctx context.Context, path string) {
	n, err := g.WriteFile(ctx, path)
	if err != nil {
		g.logger.Error().Err(err).Str("path", path).Msg("failed to generate sitemap, keeping the existing file")
		return
	}
	g.logger.Info().Int("projects", n).Str("path", path).Msg("sitemap generated")
}

// BuildSitemap renders a sitemap with image entries for baseURL.
func BuildSitemap(baseURL string, projects []models.Project) ([]byte, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")

	set := sitemapURLSet{
		XMLNS:   sitemapNS,
		ImageNS: sitemapImageNS,
		URLs:    make([]sitemapURL, 0, len(staticPages)+len(projects)),
	}
	for _, page := range staticPages {
		page.Loc = baseURL + page.Loc
		set.URLs = append(set.URLs, page)
	}
	for _, p := range projects {
		entry := sitemapURL{
			Loc:     baseURL + "/projects/" + url.PathEscape(p.ID),
			LastMod: lastModified(p),
		}
		for _, img := range p.StoredFileURLs() {
			entry.Images = append(entry.Images, sitemapImage{Loc: img})
		}
		set.URLs = append(set.URLs, entry)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func lastModified(p models.Project) string {
	t := p.UpdatedAt
	if t.IsZero() {
		t = p.CreatedAt
	}
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
