package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/eventcrew/core"
)

const (
	// SearchToolName is the name the model uses to request a web search.
	SearchToolName = "search_internet"

	// DefaultSerperEndpoint is the Serper Google search API.
	DefaultSerperEndpoint = "https://google.serper.dev/search"

	noResults = "No results found"
)

// SearchOptions configures a SearchTool.
type SearchOptions struct {
	// Endpoint overrides the Serper API URL (tests point it at httptest).
	Endpoint string
	// APIKey is used when the run carries no search credential.
	APIKey string
	// NumResults caps the organic results requested and summarised.
	NumResults int
	HTTPClient *http.Client
}

// SearchTool wraps the Serper web-search API. It never returns an error:
// every failure is reported to the model as "Search unavailable: <err>".
type SearchTool struct {
	opts SearchOptions
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(optFns ...func(o *SearchOptions)) *SearchTool {
	opts := SearchOptions{
		Endpoint:   DefaultSerperEndpoint,
		NumResults: 10,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SearchTool{opts: opts}
}

// Name implements Tool.
func (t *SearchTool) Name() string { return SearchToolName }

// Description implements Tool.
func (t *SearchTool) Description() string {
	return "Search the internet for information. Input should be a search query string."
}

// Parameters implements Tool.
func (t *SearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"search_query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
		},
		"required": []string{"search_query"},
	}
}

// Call implements Tool.
func (t *SearchTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	query, _ := args["search_query"].(string)

	apiKey := toolCtx.Credentials().SearchAPIKey
	if apiKey == "" {
		apiKey = t.opts.APIKey
	}

	result, err := t.Search(toolCtx.Context(), apiKey, query)
	if err != nil {
		toolCtx.LogWarn("tool.search.unavailable", "query", query, "error", err.Error())
		return "Search unavailable: " + err.Error(), nil
	}

	return result, nil
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type serperResponse struct {
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search queries Serper and summarises the response into a single string.
func (t *SearchTool) Search(ctx context.Context, apiKey, query string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("serper api key is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("empty search query")
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: t.opts.NumResults})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.opts.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	return summarise(sr, t.opts.NumResults), nil
}

func summarise(sr serperResponse, limit int) string {
	if sr.AnswerBox != nil {
		if sr.AnswerBox.Answer != "" {
			return sr.AnswerBox.Answer
		}
		if sr.AnswerBox.Snippet != "" {
			return strings.ReplaceAll(sr.AnswerBox.Snippet, "\n", " ")
		}
	}

	var snippets []string
	if kg := sr.KnowledgeGraph; kg != nil {
		if kg.Description != "" {
			snippets = append(snippets, kg.Description)
		} else if kg.Title != "" && kg.Type != "" {
			snippets = append(snippets, kg.Title+": "+kg.Type)
		}
	}

	for i, r := range sr.Organic {
		if limit > 0 && i >= limit {
			break
		}
		if r.Snippet != "" {
			snippets = append(snippets, r.Snippet)
		}
	}

	if len(snippets) == 0 {
		return noResults
	}

	return strings.Join(snippets, " ")
}
