package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/observability"
)

// Path names which strategy produced a job description.
type Path string

const (
	// PathPrimary is readable text extracted from the static HTML.
	PathPrimary Path = "primary"
	// PathMetaFallback is a page meta description.
	PathMetaFallback Path = "meta_fallback"
	// PathRendered is text extracted after a headless render.
	PathRendered Path = "rendered"
	// PathBestEffort is whatever was available when every other path failed.
	PathBestEffort Path = "best_effort"
)

// Thresholds for accepting an extraction path.
const (
	MinContentLength = 500
	MinMetaLength    = 120
	bestEffortBytes  = 300
)

var jsPlaceholders = []string{
	"enable javascript",
	"requires javascript",
	"<noscript",
	"turn on javascript",
}

// JobOptions configures JobDescription. Render is only consulted when
// AllowRender is set.
type JobOptions struct {
	Fetch         *Options
	AllowRender   bool
	Render        Renderer
	RenderTimeout time.Duration
	Logger        *zap.Logger
}

// JobPage is a fetched job description and how it was obtained.
type JobPage struct {
	URL   string
	Title string
	Text  string
	Path  Path
}

// JobDescription fetches url and extracts the posting text. Only a failed
// static fetch is an error; every later path degrades to best effort.
func JobDescription(ctx context.Context, url string, opts *JobOptions) (*JobPage, error) {
	if opts == nil {
		opts = &JobOptions{}
	}
	logger := observability.OrNop(opts.Logger).With(zap.String("url", url))

	res, err := URL(ctx, url, opts.Fetch)
	if err != nil {
		return nil, err
	}
	page := &JobPage{URL: res.URL, Title: PageTitle(res.HTML)}

	platform := DetectPlatform(res.URL)
	text := extractJobText(res.HTML, platform)
	if acceptable(text) {
		page.Text, page.Path = text, PathPrimary
		return page, nil
	}

	meta := MetaFallback(res.HTML)
	if len(meta) >= MinMetaLength {
		page.Text, page.Path = meta, PathMetaFallback
		return page, nil
	}

	if opts.AllowRender && opts.Render != nil {
		timeout := opts.RenderTimeout
		if timeout <= 0 {
			timeout = DefaultRenderTimeout
		}
		rendered, err := opts.Render(ctx, url, timeout)
		if err != nil {
			logger.Warn("render failed", zap.Error(err))
		} else if rtext := extractJobText(rendered, platform); acceptable(rtext) {
			page.Text, page.Path = rtext, PathRendered
			return page, nil
		}
	}

	page.Path = PathBestEffort
	switch {
	case text != "":
		page.Text = text
	case meta != "":
		page.Text = meta
	default:
		page.Text = strings.TrimSpace(headBytes(res.HTML, bestEffortBytes))
	}
	logger.Info("job description degraded to best effort", zap.Int("chars", len(page.Text)))
	return page, nil
}

// LooksJSPlaceholder reports whether s reads like a "please enable
// JavaScript" shell rather than content.
func LooksJSPlaceholder(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range jsPlaceholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// MetaFallback returns the first non-empty og:description,
// twitter:description or description meta content, else the page title.
func MetaFallback(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, prop := range []string{"og:description", "twitter:description"} {
		for _, attr := range []string{"property", "name"} {
			if content := metaContent(doc, attr, prop); content != "" {
				return content
			}
		}
	}
	if content := metaContent(doc, "name", "description"); content != "" {
		return content
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// PageTitle returns the trimmed <title> text, or "".
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return collapseWhitespace(doc.Find("title").First().Text())
}

func metaContent(doc *goquery.Document, attr, value string) string {
	content, _ := doc.Find(`meta[` + attr + `="` + value + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

func extractJobText(html string, platform Platform) string {
	text, err := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return ""
	}
	return text
}

func acceptable(text string) bool {
	return len(text) >= MinContentLength && !LooksJSPlaceholder(text)
}

func headBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
