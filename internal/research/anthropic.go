package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/verity/internal/domain"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicModel       = "claude-3-5-haiku-20241022"
	anthropicVersion     = "2023-06-01"
	anthropicMaxTokens   = 4096
)

type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []anthropicTool    `json:"tools,omitempty"`
}

type anthropicCitation struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type anthropicResponse struct {
	Content []struct {
		Type      string              `json:"type"`
		Text      string              `json:"text"`
		Citations []anthropicCitation `json:"citations,omitempty"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Query runs the research query with the web search tool enabled and
// collects citations from the content blocks. Failure semantics match
// the OpenAI client: Status/Err carry run failures, the error return is
// for request construction only.
func (c *AnthropicClient) Query(ctx context.Context, query string, timeout time.Duration) (*domain.ResearchResult, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: anthropicMaxTokens,
		System:    researchInstructions,
		Messages:  []anthropicMessage{{Role: "user", Content: query}},
		Tools:     []anthropicTool{{Type: "web_search_20250305", Name: "web_search", MaxUses: 5}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal anthropic request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &domain.ResearchResult{Status: domain.ResearchStatusTimeout, Err: "timeout"}, nil
		}
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: err.Error()}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: fmt.Sprintf("read anthropic response: %v", err)}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return &domain.ResearchResult{
			Status: domain.ResearchStatusFailed,
			Err:    fmt.Sprintf("anthropic API returned status %d: %s", resp.StatusCode, string(respBody)),
		}, nil
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: fmt.Sprintf("unmarshal anthropic response: %v", err)}, nil
	}

	if result.Error != nil {
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: result.Error.Message}, nil
	}

	var parts []string
	seen := make(map[string]struct{})
	var citations []domain.Citation
	for _, block := range result.Content {
		if block.Type != "text" {
			continue
		}
		if t := strings.TrimSpace(block.Text); t != "" {
			parts = append(parts, t)
		}
		for _, cit := range block.Citations {
			if cit.URL == "" {
				continue
			}
			if _, ok := seen[cit.URL]; ok {
				continue
			}
			seen[cit.URL] = struct{}{}
			title := cit.Title
			if title == "" {
				title = cit.URL
			}
			citations = append(citations, domain.Citation{Title: title, URL: cit.URL})
		}
	}

	if len(parts) == 0 {
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: "anthropic API returned no content"}, nil
	}

	return &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: strings.Join(parts, "\n\n"),
		Citations:   citations,
	}, nil
}
