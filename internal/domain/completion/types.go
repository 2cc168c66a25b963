package completion

import "strings"

const (
	DefaultEndpoint  = "https://api.openai.com/v1/completions"
	DefaultModel     = "text-davinci-003"
	DefaultMaxTokens = 1500

	// NoResult is returned in place of generated text when the service
	// answered successfully but the body carried no usable choice.
	NoResult = "no result available"
)

type Request struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
	Model     string `json:"model"`
}

type Response struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Text string `json:"text"`
}

// FirstText reports the first choice's text. A response without choices
// yields false.
func (r Response) FirstText() (string, bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Text, true
}

// Problem returns a diagnostic for a request the service would reject, or
// "" when the request is well formed.
func (r Request) Problem() string {
	switch {
	case strings.TrimSpace(r.Prompt) == "":
		return "prompt is empty"
	case r.MaxTokens <= 0:
		return "token budget must be positive"
	case strings.TrimSpace(r.Model) == "":
		return "model is not set"
	default:
		return ""
	}
}
