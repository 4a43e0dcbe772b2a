package embedding

import "context"

// MockClient returns a fixed-size deterministic vector derived from the
// input text, for tests and local runs without an API key.
type MockClient struct {
	Dimensions int
	EmbedError error

	EmbedCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{Dimensions: 1536}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedError != nil {
		return nil, c.EmbedError
	}

	vec := make([]float32, c.Dimensions)
	for i, ch := range text {
		vec[i%c.Dimensions] += float32(ch%13) / 13
	}
	return vec, nil
}
