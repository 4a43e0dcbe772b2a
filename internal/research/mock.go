package research

import (
	"context"
	"time"

	"github.com/Harshitk-cp/verity/internal/domain"
)

// MockClient is a configurable research client for testing.
// Set the response fields to control what Query returns; queue multiple
// results for multi-stage pipelines.
type MockClient struct {
	QueryResponse *domain.ResearchResult
	QueryError    error

	// Results, when non-empty, are returned in order before falling back
	// to QueryResponse.
	Results []*domain.ResearchResult

	// Call tracking for assertions
	QueryCalls    []string
	QueryTimeouts []time.Duration
}

func NewMockClient() *MockClient {
	return &MockClient{
		QueryResponse: &domain.ResearchResult{
			Status:      domain.ResearchStatusCompleted,
			MessageText: "Mock research answer",
			Citations:   []domain.Citation{},
		},
	}
}

func (c *MockClient) Query(ctx context.Context, query string, timeout time.Duration) (*domain.ResearchResult, error) {
	c.QueryCalls = append(c.QueryCalls, query)
	c.QueryTimeouts = append(c.QueryTimeouts, timeout)

	if c.QueryError != nil {
		return nil, c.QueryError
	}
	if n := len(c.QueryCalls); n <= len(c.Results) {
		return c.Results[n-1], nil
	}
	return c.QueryResponse, nil
}
