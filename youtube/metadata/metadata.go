// Package metadata pulls human-readable video metadata out of watch pages.
package metadata

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/CK3thou/youtube-transcripts/client"
	"github.com/CK3thou/youtube-transcripts/internal/extract"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
)

const siteSuffix = " - YouTube"

var (
	jsonTitleRe = regexp.MustCompile(`"title":"((?:[^"\\]|\\.)+)"`)
	htmlTitleRe = regexp.MustCompile(`<title>([^<]+)</title>`)
	ogTitleRe   = regexp.MustCompile(`property="og:title" content="([^"]+)"`)
)

// CleanTitle strips the site suffix and surrounding whitespace.
func CleanTitle(raw string) string {
	t := strings.TrimSpace(raw)
	t = strings.TrimSuffix(t, siteSuffix)
	return strings.TrimSpace(t)
}

func cleaned(decode func(string) string) func(string) (string, bool) {
	return func(raw string) (string, bool) {
		t := CleanTitle(decode(raw))
		return t, t != ""
	}
}

// JSONTitle matches the "title":"..." field of the embedded player JSON.
func JSONTitle() extract.Strategy[string] {
	return extract.Map(extract.Submatch(jsonTitleRe), cleaned(extract.DecodeJSONString))
}

// HTMLTitle matches a bare <title> element.
func HTMLTitle() extract.Strategy[string] {
	return extract.Map(extract.Submatch(htmlTitleRe), cleaned(html.UnescapeString))
}

// OGTitle matches the og:title meta tag written with property before content.
func OGTitle() extract.Strategy[string] {
	return extract.Map(extract.Submatch(ogTitleRe), cleaned(html.UnescapeString))
}

// MetaTitle parses the document and reads og:title or name="title" meta tags
// in any attribute order.
func MetaTitle() extract.Strategy[string] {
	return extract.Func[string](func(page string) (string, bool) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			return "", false
		}
		for _, sel := range []string{`meta[property="og:title"]`, `meta[name="title"]`, `meta[name="twitter:title"]`} {
			if content, ok := doc.Find(sel).First().Attr("content"); ok {
				if t := CleanTitle(content); t != "" {
					return t, true
				}
			}
		}
		return "", false
	})
}

// TokenTitle walks the token stream for the first <title> element, tolerating
// attributes on the tag and entities in its text.
func TokenTitle() extract.Strategy[string] {
	return extract.Func[string](func(page string) (string, bool) {
		z := html.NewTokenizer(strings.NewReader(page))
		inTitle := false
		var sb strings.Builder
		for {
			switch z.Next() {
			case html.ErrorToken:
				t := CleanTitle(sb.String())
				return t, t != ""
			case html.StartTagToken:
				name, _ := z.TagName()
				if string(name) == "title" {
					inTitle = true
				}
			case html.TextToken:
				if inTitle {
					sb.Write(z.Text())
				}
			case html.EndTagToken:
				name, _ := z.TagName()
				if inTitle && string(name) == "title" {
					t := CleanTitle(sb.String())
					return t, t != ""
				}
			}
		}
	})
}

// DefaultStrategies is the title chain in priority order.
func DefaultStrategies() extract.Chain[string] {
	return extract.Chain[string]{JSONTitle(), HTMLTitle(), OGTitle(), MetaTitle(), TokenTitle()}
}

// Extractor finds titles with an ordered strategy chain.
type Extractor struct {
	strategies extract.Chain[string]
}

// New returns an Extractor using DefaultStrategies.
func New() *Extractor {
	return &Extractor{strategies: DefaultStrategies()}
}

// WithStrategies replaces the strategy chain.
func (e *Extractor) WithStrategies(s ...extract.Strategy[string]) *Extractor {
	e.strategies = extract.Chain[string](s)
	return e
}

// ExtractTitle returns the first non-empty title found in page.
func (e *Extractor) ExtractTitle(page string) (string, bool) {
	return e.strategies.Extract(page)
}

// FetchTitle fetches pageURL and extracts its title. Fetch failures are
// logged and reported as no title.
func (e *Extractor) FetchTitle(ctx context.Context, f client.Fetcher, pageURL string) (string, bool) {
	page, err := f.Fetch(ctx, pageURL, nil)
	if err != nil {
		logger.WithComponent(logger.ComponentMetadata).Debug("title fetch failed", map[string]any{"url": pageURL, "error": err.Error()})
		return "", false
	}
	return e.ExtractTitle(page)
}

var defaultExtractor = New()

// ExtractTitle runs the default chain against page.
func ExtractTitle(page string) (string, bool) {
	return defaultExtractor.ExtractTitle(page)
}
