package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/domain"
	"AgencyPulse/internal/ports"
)

const defaultBatchSize = 10

// RemoteClient scores documents through an external sentiment service.
// Documents are submitted in fixed-size batches, sequentially, each
// call blocking until the response or the request timeout. A
// per-document provider error becomes an unknown score; anything that
// invalidates a whole call is a ScoringServiceError.
type RemoteClient struct {
	endpoint  string
	apiKey    string
	batchSize int
	http      *http.Client
	logger    *slog.Logger
}

var _ ports.SentimentBackend = (*RemoteClient)(nil)

// NewRemoteClient creates a reusable HTTP client from configuration.
func NewRemoteClient(cfg config.SentimentConfig, logger *slog.Logger) *RemoteClient {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &RemoteClient{
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		batchSize: batch,
		http:      &http.Client{Timeout: cfg.Timeout()},
		logger:    logger,
	}
}

// Name identifies the backend in config and the run ledger.
func (c *RemoteClient) Name() string {
	return "remote"
}

// ScoreBatch submits texts in batches and assembles results in input
// order. One result is returned for every input or none at all.
func (c *RemoteClient) ScoreBatch(ctx context.Context, texts []string) ([]domain.Score, error) {
	if c.endpoint == "" || c.apiKey == "" {
		return nil, &domain.ConfigurationError{
			Missing: "sentiment service endpoint or api key",
			Hint:    "set SENTIMENT_API_ENDPOINT and SENTIMENT_API_KEY",
		}
	}

	out := make([]domain.Score, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batchIdx := start / c.batchSize

		scores, err := c.scoreCall(ctx, texts[start:end], batchIdx)
		if err != nil {
			return nil, err
		}
		out = append(out, scores...)
		c.debug("batch scored", "batch", batchIdx, "documents", end-start)
	}
	return out, nil
}

type wireDocument struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type wireScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

type wireResult struct {
	ID               string     `json:"id"`
	Sentiment        string     `json:"sentiment"`
	ConfidenceScores wireScores `json:"confidenceScores"`
}

type wireError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type wireResponse struct {
	Documents []wireResult `json:"documents"`
	Errors    []wireError  `json:"errors"`
}

// scoreCall performs one batched request. Every submitted document must
// come back as either a result or a per-document error; a count
// mismatch is treated as a call-level failure rather than silently
// truncated.
func (c *RemoteClient) scoreCall(ctx context.Context, batch []string, batchIdx int) ([]domain.Score, error) {
	docs := make([]wireDocument, len(batch))
	for i, text := range batch {
		docs[i] = wireDocument{ID: strconv.Itoa(i), Text: text}
	}

	body, err := json.Marshal(map[string]any{"documents": docs})
	if err != nil {
		return nil, &domain.ScoringServiceError{Batch: batchIdx, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ScoringServiceError{Batch: batchIdx, Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ScoringServiceError{Batch: batchIdx, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &domain.ScoringServiceError{
			Batch: batchIdx,
			Err:   fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(detail))),
		}
	}

	var decoded wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.ScoringServiceError{Batch: batchIdx, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(decoded.Documents)+len(decoded.Errors) != len(batch) {
		return nil, &domain.ScoringServiceError{
			Batch: batchIdx,
			Err: fmt.Errorf("service answered %d results for %d documents",
				len(decoded.Documents)+len(decoded.Errors), len(batch)),
		}
	}

	results := map[string]wireResult{}
	for _, d := range decoded.Documents {
		results[d.ID] = d
	}
	failed := map[string]struct{}{}
	for _, e := range decoded.Errors {
		failed[e.ID] = struct{}{}
		c.debug("document error", "batch", batchIdx, "id", e.ID, "message", e.Message)
	}

	scores := make([]domain.Score, len(batch))
	for i := range batch {
		id := strconv.Itoa(i)
		if _, ok := failed[id]; ok {
			scores[i] = domain.Unknown()
			continue
		}
		r, ok := results[id]
		if !ok {
			return nil, &domain.ScoringServiceError{
				Batch: batchIdx,
				Err:   fmt.Errorf("service returned no result for document %s", id),
			}
		}
		scores[i] = mapResult(r)
	}
	return scores, nil
}

// mapResult folds a wire result into the closed label set. Labels
// outside the set (e.g. a provider's "mixed") are demoted to unknown
// with zeroed scores, same as a per-document error.
func mapResult(r wireResult) domain.Score {
	switch domain.Sentiment(r.Sentiment) {
	case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
		return domain.Score{
			Label: domain.Sentiment(r.Sentiment),
			Pos:   r.ConfidenceScores.Positive,
			Neu:   r.ConfidenceScores.Neutral,
			Neg:   r.ConfidenceScores.Negative,
		}
	default:
		return domain.Unknown()
	}
}

func (c *RemoteClient) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
