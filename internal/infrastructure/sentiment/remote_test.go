package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"AgencyPulse/internal/config"
	"AgencyPulse/internal/domain"
)

func remoteConfig(endpoint string) config.SentimentConfig {
	return config.SentimentConfig{
		Backend:   config.BackendRemote,
		Endpoint:  endpoint,
		APIKey:    "test-key",
		BatchSize: 10,
	}
}

type scoreRequest struct {
	Documents []wireDocument `json:"documents"`
}

func TestRemoteClientBatchesOfTen(t *testing.T) {
	t.Parallel()

	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}

		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		batchSizes = append(batchSizes, len(req.Documents))

		resp := wireResponse{}
		for _, d := range req.Documents {
			resp.Documents = append(resp.Documents, wireResult{
				ID:               d.ID,
				Sentiment:        "neutral",
				ConfidenceScores: wireScores{Neutral: 1},
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	texts := make([]string, 23)
	for i := range texts {
		texts[i] = fmt.Sprintf("document number %d", i)
	}

	client := NewRemoteClient(remoteConfig(server.URL), nil)
	scores, err := client.ScoreBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}

	if len(scores) != 23 {
		t.Fatalf("expected 23 scores, got %d", len(scores))
	}
	want := []int{10, 10, 3}
	if len(batchSizes) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(batchSizes))
	}
	for i, size := range want {
		if batchSizes[i] != size {
			t.Fatalf("call %d had %d documents, want %d", i, batchSizes[i], size)
		}
	}
}

func TestRemoteClientPerDocumentError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		// document "3" fails provider-side; the other nine succeed
		resp := wireResponse{}
		for _, d := range req.Documents {
			if d.ID == "3" {
				resp.Errors = append(resp.Errors, wireError{ID: d.ID, Message: "document too long"})
				continue
			}
			resp.Documents = append(resp.Documents, wireResult{
				ID:               d.ID,
				Sentiment:        "positive",
				ConfidenceScores: wireScores{Positive: 0.7, Neutral: 0.2, Negative: 0.1},
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = fmt.Sprintf("document number %d", i)
	}

	scores, err := NewRemoteClient(remoteConfig(server.URL), nil).ScoreBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if len(scores) != 10 {
		t.Fatalf("expected 10 scores, got %d", len(scores))
	}

	if scores[3].Label != domain.SentimentUnknown {
		t.Fatalf("failed document should be unknown, got %s", scores[3].Label)
	}
	if scores[3].Pos != 0 || scores[3].Neu != 0 || scores[3].Neg != 0 {
		t.Fatalf("failed document should carry zeroed scores: %+v", scores[3])
	}

	for i, s := range scores {
		if i == 3 {
			continue
		}
		if s.Label != domain.SentimentPositive || s.Pos != 0.7 {
			t.Fatalf("document %d lost its real score: %+v", i, s)
		}
	}
}

func TestRemoteClientCallLevelFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid subscription", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewRemoteClient(remoteConfig(server.URL), nil).ScoreBatch(context.Background(), []string{"some text"})

	var svcErr *domain.ScoringServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ScoringServiceError, got %v", err)
	}
	if !strings.Contains(svcErr.Error(), "401") {
		t.Fatalf("error should carry the status: %v", svcErr)
	}
}

func TestRemoteClientCountMismatchIsCallLevel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// one result for two documents: misaligned batch
		resp := wireResponse{Documents: []wireResult{{ID: "0", Sentiment: "neutral"}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	_, err := NewRemoteClient(remoteConfig(server.URL), nil).ScoreBatch(context.Background(), []string{"first text", "second text"})

	var svcErr *domain.ScoringServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("count mismatch must fail the call, got %v", err)
	}
}

func TestRemoteClientMissingCredentials(t *testing.T) {
	t.Parallel()

	cfg := remoteConfig("https://api.example.org")
	cfg.APIKey = ""

	_, err := NewRemoteClient(cfg, nil).ScoreBatch(context.Background(), []string{"some text"})

	var confErr *domain.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestRemoteClientUnrecognizedLabel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := wireResponse{Documents: []wireResult{{
			ID:               "0",
			Sentiment:        "mixed",
			ConfidenceScores: wireScores{Positive: 0.5, Negative: 0.5},
		}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	scores, err := NewRemoteClient(remoteConfig(server.URL), nil).ScoreBatch(context.Background(), []string{"some text"})
	if err != nil {
		t.Fatalf("ScoreBatch: %v", err)
	}
	if scores[0].Label != domain.SentimentUnknown {
		t.Fatalf("labels outside the closed set must map to unknown, got %s", scores[0].Label)
	}
}
