package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/scanner"
)

const defaultRedditBaseURL = "https://www.reddit.com"

// RedditScanner searches public Reddit JSON endpoints for submissions
// mentioning the agency, plus top-level comments of the newest
// submissions. The partition carries a Description column (submission
// selftext / comment body) and the PublicDiscussion category.
type RedditScanner struct {
	client         *http.Client
	baseURL        string
	searchLimit    int
	commentLookups int
}

// NewRedditScanner wires an HTTP client; searchLimit defaults to 100
// and comment threads are fetched for the 10 newest submissions.
func NewRedditScanner(client *http.Client) *RedditScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RedditScanner{
		client:         client,
		baseURL:        defaultRedditBaseURL,
		searchLimit:    100,
		commentLookups: 10,
	}
}

// Name identifies the strategy inside the registry.
func (r *RedditScanner) Name() string {
	return "reddit"
}

type redditThing struct {
	ID         string  `json:"id"`
	Subreddit  string  `json:"subreddit"`
	CreatedUTC float64 `json:"created_utc"`
	Author     string  `json:"author"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Body       string  `json:"body"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data redditThing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Scan runs every search term and collects submissions and comments
// into one raw partition.
func (r *RedditScanner) Scan(ctx context.Context, req scanner.Request) (*dataset.Frame, error) {
	frame := dataset.New("platform", "kind", "id", "subreddit", "created_utc",
		"author", "title", "Description", "url", "Program", "Date")

	seen := map[string]struct{}{}
	var threads []redditThing

	for _, term := range req.SearchTerms {
		listing, err := r.search(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", term, err)
		}

		for _, child := range listing.Data.Children {
			subm := child.Data
			if _, ok := seen[subm.ID]; ok {
				continue
			}
			seen[subm.ID] = struct{}{}
			r.appendRow(frame, "submission", subm, subm.Title, subm.Selftext)
			if len(threads) < r.commentLookups {
				threads = append(threads, subm)
			}
		}
	}

	for _, subm := range threads {
		comments, err := r.fetchComments(ctx, subm.ID)
		if err != nil {
			// Comment expansion is best effort; the submissions are
			// already in the partition.
			continue
		}
		for _, c := range comments {
			if _, ok := seen["c:"+c.ID]; ok {
				continue
			}
			seen["c:"+c.ID] = struct{}{}
			r.appendRow(frame, "comment", c, subm.Title, c.Body)
		}
	}

	return frame, nil
}

func (r *RedditScanner) appendRow(frame *dataset.Frame, kind string, thing redditThing, title, text string) {
	created := ""
	date := ""
	if thing.CreatedUTC > 0 {
		t := time.Unix(int64(thing.CreatedUTC), 0).UTC()
		created = t.Format(time.RFC3339)
		date = t.Format("2006-01-02")
	}
	link := thing.URL
	if thing.Permalink != "" {
		link = defaultRedditBaseURL + thing.Permalink
	}
	frame.Append(map[string]string{
		"platform":    "reddit",
		"kind":        kind,
		"id":          thing.ID,
		"subreddit":   thing.Subreddit,
		"created_utc": created,
		"author":      thing.Author,
		"title":       title,
		"Description": text,
		"url":         link,
		"Program":     "PublicDiscussion",
		"Date":        date,
	})
}

func (r *RedditScanner) search(ctx context.Context, term string) (*redditListing, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(r.searchLimit))

	var listing redditListing
	if err := r.getJSON(ctx, r.baseURL+"/search.json?"+q.Encode(), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// fetchComments loads the top-level comments of one submission. The
// comments endpoint answers with two listings: the submission itself
// and its comment tree.
func (r *RedditScanner) fetchComments(ctx context.Context, submissionID string) ([]redditThing, error) {
	var listings []redditListing
	if err := r.getJSON(ctx, r.baseURL+"/comments/"+submissionID+".json", &listings); err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var comments []redditThing
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" || strings.TrimSpace(child.Data.Body) == "" {
			continue
		}
		comments = append(comments, child.Data)
	}
	return comments, nil
}

func (r *RedditScanner) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "AgencyPulse/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
