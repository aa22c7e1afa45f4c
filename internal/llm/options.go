package llm

// Float64Ptr returns a pointer to the given float64 value.
// Useful for constructing Request with an explicit temperature.
func Float64Ptr(v float64) *float64 {
	return &v
}

// gatewayConfig holds configuration for an LLM gateway.
type gatewayConfig struct {
	baseURL string
	apiKey  string
	model   string
}

// Option is a functional option for configuring an LLM gateway.
type Option func(*gatewayConfig)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *gatewayConfig) {
		c.baseURL = url
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *gatewayConfig) {
		c.apiKey = key
	}
}

// WithModel sets the default model name for requests.
// Per-request model settings in Request take precedence.
func WithModel(model string) Option {
	return func(c *gatewayConfig) {
		c.model = model
	}
}
