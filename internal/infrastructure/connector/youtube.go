package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"AgencyPulse/internal/dataset"
	"AgencyPulse/internal/scanner"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubeScanner pulls top-level comment threads for configured video
// IDs. Options: "videoIds" (comma separated, required) and
// "maxComments" (per-video cap, default 200). Without an API key the
// scanner is skipped, yielding an empty partition.
type YouTubeScanner struct {
	client  *http.Client
	baseURL string
	apiKey  func() string
	logger  *slog.Logger
}

// NewYouTubeScanner wires an HTTP client and an API key source.
func NewYouTubeScanner(client *http.Client, apiKey func() string, logger *slog.Logger) *YouTubeScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if apiKey == nil {
		apiKey = func() string { return "" }
	}
	return &YouTubeScanner{client: client, baseURL: defaultYouTubeBaseURL, apiKey: apiKey, logger: logger}
}

// Name identifies the strategy inside the registry.
func (y *YouTubeScanner) Name() string {
	return "youtube"
}

type commentThreadsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					AuthorDisplayName string `json:"authorDisplayName"`
					PublishedAt       string `json:"publishedAt"`
					TextDisplay       string `json:"textDisplay"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// Scan walks the commentThreads pages of every configured video.
func (y *YouTubeScanner) Scan(ctx context.Context, req scanner.Request) (*dataset.Frame, error) {
	frame := dataset.New("platform", "kind", "video_id", "author", "created_utc",
		"title", "Description", "url", "Program", "Date")

	key := y.apiKey()
	if key == "" {
		y.info("no YouTube API key, skipping connector")
		return frame, nil
	}

	videoIDs := splitCSVOption(req.Option("videoIds", ""))
	if len(videoIDs) == 0 {
		y.info("no video ids configured, skipping connector")
		return frame, nil
	}

	maxComments, err := strconv.Atoi(req.Option("maxComments", "200"))
	if err != nil || maxComments <= 0 {
		maxComments = 200
	}

	for _, videoID := range videoIDs {
		if err := y.fetchVideo(ctx, frame, videoID, key, maxComments); err != nil {
			return nil, fmt.Errorf("video %s: %w", videoID, err)
		}
	}
	return frame, nil
}

func (y *YouTubeScanner) fetchVideo(ctx context.Context, frame *dataset.Frame, videoID, key string, maxComments int) error {
	pageToken := ""
	fetched := 0

	for {
		q := url.Values{}
		q.Set("part", "snippet")
		q.Set("videoId", videoID)
		q.Set("maxResults", "100")
		q.Set("key", key)
		q.Set("textFormat", "plainText")
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/commentThreads?"+q.Encode(), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		resp, err := y.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}

		var page commentThreadsResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("youtube returned %s", resp.Status)
		}
		if decodeErr != nil {
			return fmt.Errorf("decode response: %w", decodeErr)
		}

		for _, item := range page.Items {
			sn := item.Snippet.TopLevelComment.Snippet
			date := ""
			if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
				date = t.UTC().Format("2006-01-02")
			}
			frame.Append(map[string]string{
				"platform":    "youtube",
				"kind":        "comment",
				"video_id":    videoID,
				"author":      sn.AuthorDisplayName,
				"created_utc": sn.PublishedAt,
				"Description": sn.TextDisplay,
				"url":         fmt.Sprintf("https://www.youtube.com/watch?v=%s&lc=%s", videoID, item.ID),
				"Program":     "PublicDiscussion",
				"Date":        date,
			})
			fetched++
		}

		pageToken = page.NextPageToken
		if pageToken == "" || fetched >= maxComments {
			return nil
		}
	}
}

func splitCSVOption(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (y *YouTubeScanner) info(msg string, args ...any) {
	if y.logger != nil {
		y.logger.Info(msg, args...)
	}
}
