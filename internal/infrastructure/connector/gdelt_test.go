package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"AgencyPulse/internal/scanner"
)

const artListPage = `<html><body>
<div class="article">
  <a href="https://news.example.org/licensing-backlog">State licensing board faces record backlog</a>
  <span>20250521T093000Z</span>
</div>
<div class="article">
  <a href="https://news.example.org/inspection-praise">Inspectors praised after storm response</a>
  <span>20250522T110000Z</span>
</div>
<div class="article">
  <a href="https://news.example.org/licensing-backlog">State licensing board faces record backlog</a>
  <span>20250521T093000Z</span>
</div>
<div class="article">
  <a href="/relative/skip-me">Relative link without a host</a>
</div>
</body></html>`

func TestGDELTScannerParsesArticleList(t *testing.T) {
	t.Parallel()

	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(artListPage))
	}))
	defer server.Close()

	g := NewGDELTScanner(server.Client())
	g.baseURL = server.URL

	frame, err := g.Scan(context.Background(), scanner.Request{
		SourceName:  "gdelt",
		SearchTerms: []string{"licensing board", "state inspections"},
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if query != "licensing board OR state inspections" {
		t.Fatalf("unexpected query %q", query)
	}

	// duplicate href collapsed, relative link skipped
	if frame.Len() != 2 {
		t.Fatalf("expected 2 articles, got %d", frame.Len())
	}

	if got := frame.Value(0, "Description"); got != "State licensing board faces record backlog" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := frame.Value(0, "Date"); got != "2025-05-21" {
		t.Fatalf("seendate not normalized, got %q", got)
	}
	if got := frame.Value(1, "Date"); got != "2025-05-22" {
		t.Fatalf("seendate not normalized, got %q", got)
	}
	for i := 0; i < frame.Len(); i++ {
		if frame.Value(i, "Program") != "News" {
			t.Fatalf("article %d missing News program", i)
		}
		if frame.Value(i, "platform") != "gdelt" {
			t.Fatalf("article %d missing platform", i)
		}
	}
}

func TestGDELTScannerEmptyTerms(t *testing.T) {
	t.Parallel()

	g := NewGDELTScanner(nil)
	frame, err := g.Scan(context.Background(), scanner.Request{SourceName: "gdelt"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if frame.Len() != 0 {
		t.Fatalf("no terms should yield an empty frame, got %d rows", frame.Len())
	}
}

func TestGDELTScannerUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewGDELTScanner(server.Client())
	g.baseURL = server.URL

	if _, err := g.Scan(context.Background(), scanner.Request{SearchTerms: []string{"board"}}); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
