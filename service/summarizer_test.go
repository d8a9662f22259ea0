package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/BerniceZTT/airlab_end/models"
)

type fakeSummarizer struct {
	got     string
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.got = text
	return f.summary, f.err
}

func TestSummarizePaperRejectsEmptyText(t *testing.T) {
	fake := &fakeSummarizer{summary: "x"}

	_, err := SummarizePaper(context.Background(), fake, models.SummarizeRequest{PaperText: "   "})

	assert.ErrorIs(t, err, ErrEmptyPaper)
	assert.Equal(t, "Paper text cannot be empty.", err.Error())
	assert.Empty(t, fake.got)
}

func TestSummarizePaperWithoutSummarizer(t *testing.T) {
	_, err := SummarizePaper(context.Background(), nil, models.SummarizeRequest{PaperText: "text"})
	assert.ErrorIs(t, err, ErrSummarizerDisabled)
}

func TestSummarizePaper(t *testing.T) {
	fake := &fakeSummarizer{summary: "short"}

	resp, err := SummarizePaper(context.Background(), fake, models.SummarizeRequest{PaperText: "long paper"})

	require.NoError(t, err)
	assert.Equal(t, "short", resp.Summary)
	assert.Equal(t, "long paper", fake.got)
}

func TestSummarizePaperPropagatesError(t *testing.T) {
	fake := &fakeSummarizer{err: errors.New("quota exceeded")}

	_, err := SummarizePaper(context.Background(), fake, models.SummarizeRequest{PaperText: "p"})
	assert.EqualError(t, err, "quota exceeded")
}

func TestNewGeminiSummarizerRequiresKey(t *testing.T) {
	_, err := NewGeminiSummarizer(context.Background(), "", "")
	assert.Error(t, err)
}

func TestGeminiSummarizerCallsGenerateContent(t *testing.T) {
	var body string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": " A concise summary. "}},
				},
			}},
		})
	}))
	defer srv.Close()

	s, err := newGeminiSummarizer(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	}, "")
	require.NoError(t, err)

	summary, err := s.Summarize(context.Background(), "Robots learn to walk.")
	require.NoError(t, err)

	assert.Equal(t, "A concise summary.", summary)
	assert.True(t, strings.Contains(path, DefaultSummaryModel), path)
	assert.Contains(t, body, "Robots learn to walk.")
}
