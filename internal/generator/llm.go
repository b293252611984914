package generator

import "context"

// LLMClient abstracts the generative text service so it can be mocked.
type LLMClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LLMSettings holds the configuration for a concrete client.
type LLMSettings struct {
	APIKey  string
	Model   string
	BaseURL string
}
