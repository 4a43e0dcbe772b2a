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
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	searchModel   = "gpt-4o-search-preview"
)

type OpenAIClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// chat types for the OpenAI API
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type urlCitation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type chatAnnotation struct {
	Type        string      `json:"type"`
	URLCitation urlCitation `json:"url_citation"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content     string           `json:"content"`
			Annotations []chatAnnotation `json:"annotations"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Query sends the query to a web-search-capable model and converts the
// reply into a ResearchResult. Timeouts and API failures land in the
// result's Status and Err fields rather than the error return, so the
// gate can surface them as notes.
func (c *OpenAIClient) Query(ctx context.Context, query string, timeout time.Duration) (*domain.ResearchResult, error) {
	body, err := json.Marshal(chatRequest{
		Model: searchModel,
		Messages: []chatMessage{
			{Role: "system", Content: researchInstructions},
			{Role: "user", Content: query},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal research request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create research request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: fmt.Sprintf("read research response: %v", err)}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return &domain.ResearchResult{
			Status: domain.ResearchStatusFailed,
			Err:    fmt.Sprintf("research API returned status %d: %s", resp.StatusCode, string(respBody)),
		}, nil
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: fmt.Sprintf("unmarshal research response: %v", err)}, nil
	}

	if result.Error != nil {
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: result.Error.Message}, nil
	}

	if len(result.Choices) == 0 {
		return &domain.ResearchResult{Status: domain.ResearchStatusFailed, Err: "research API returned no choices"}, nil
	}

	msg := result.Choices[0].Message
	return &domain.ResearchResult{
		Status:      domain.ResearchStatusCompleted,
		MessageText: strings.TrimSpace(msg.Content),
		Citations:   annotationCitations(msg.Annotations),
	}, nil
}

// annotationCitations converts url_citation annotations into unique
// citations in annotation order. Only structured annotations count here;
// URLs buried in prose are the trust gate's problem.
func annotationCitations(annotations []chatAnnotation) []domain.Citation {
	seen := make(map[string]struct{}, len(annotations))
	var citations []domain.Citation
	for _, ann := range annotations {
		if ann.Type != "url_citation" || ann.URLCitation.URL == "" {
			continue
		}
		if _, ok := seen[ann.URLCitation.URL]; ok {
			continue
		}
		seen[ann.URLCitation.URL] = struct{}{}
		title := ann.URLCitation.Title
		if title == "" {
			title = ann.URLCitation.URL
		}
		citations = append(citations, domain.Citation{Title: title, URL: ann.URLCitation.URL})
	}
	return citations
}
