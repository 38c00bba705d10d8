package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/scanner"
)

const defaultGDELTBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// seendate stamps embedded in the article list, e.g. 20250821T120000Z.
var seendateExpr = regexp.MustCompile(`\d{8}T\d{6}Z`)

// GDELTScanner queries the GDELT 2.0 doc API in ArtList mode and
// extracts article titles and seen-dates from the returned HTML list.
// Articles land under the News category with the title as Description.
type GDELTScanner struct {
	client     *http.Client
	baseURL    string
	maxRecords int
}

// NewGDELTScanner wires an HTTP client; maxRecords defaults to 250.
func NewGDELTScanner(client *http.Client) *GDELTScanner {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &GDELTScanner{client: client, baseURL: defaultGDELTBaseURL, maxRecords: 250}
}

// Name identifies the strategy inside the registry.
func (g *GDELTScanner) Name() string {
	return "gdelt"
}

// Scan issues one query joining all search terms with OR.
func (g *GDELTScanner) Scan(ctx context.Context, req scanner.Request) (*dataset.Frame, error) {
	frame := dataset.New("platform", "kind", "Description", "url", "Program", "Date")

	if len(req.SearchTerms) == 0 {
		return frame, nil
	}

	q := url.Values{}
	q.Set("query", strings.Join(req.SearchTerms, " OR "))
	q.Set("mode", "ArtList")
	q.Set("format", "html")
	q.Set("maxrecords", strconv.Itoa(g.maxRecords))

	doc, err := g.fetchDocument(ctx, g.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if !strings.HasPrefix(href, "http") || title == "" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}

		date := ""
		if match := seendateExpr.FindString(a.Parent().Text()); match != "" {
			if t, err := time.Parse("20060102T150405Z", match); err == nil {
				date = t.Format("2006-01-02")
			}
		}

		frame.Append(map[string]string{
			"platform":    "gdelt",
			"kind":        "article",
			"Description": title,
			"url":         href,
			"Program":     "News",
			"Date":        date,
		})
	})

	return frame, nil
}

func (g *GDELTScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "AgencyPulse/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request article list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gdelt returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse article list: %w", err)
	}

	return doc, nil
}
