package openai

import (
	"context"

	"relaybot/internal/adapter/rest"
	"relaybot/internal/app/ports"
	"relaybot/internal/domain/completion"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Client calls a text-completion endpoint. Every outcome, including
// transport failures, is returned as text.
type Client struct {
	rest     *rest.Client
	endpoint string
	apiKey   string
	metrics  ports.CompletionMetrics
	logger   *zap.Logger
}

func NewClient(r *rest.Client, endpoint, apiKey string, metrics ports.CompletionMetrics, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = completion.DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Client{rest: r, endpoint: endpoint, apiKey: apiKey, metrics: metrics, logger: logger}
}

func (c *Client) Generate(ctx context.Context, req completion.Request) string {
	if problem := req.Problem(); problem != "" {
		return c.diagnostic(problem)
	}

	reply, err := c.rest.PostJSON(ctx, c.endpoint, "Bearer "+c.apiKey, req)
	if err != nil {
		c.logger.Warn("completion request failed", zap.Error(err))
		return c.diagnostic("completion request failed: " + err.Error())
	}
	if !reply.OK() {
		c.logger.Warn("completion rejected",
			zap.Int("status", reply.StatusCode),
			zap.ByteString("body", reply.Body))
		return c.diagnostic(reply.StatusText())
	}

	var body completion.Response
	if err := sonic.Unmarshal(reply.Body, &body); err != nil {
		c.logger.Warn("completion body undecodable", zap.Error(err))
		return c.diagnostic(completion.NoResult)
	}
	text, ok := body.FirstText()
	if !ok {
		return c.diagnostic(completion.NoResult)
	}
	c.metrics.RecordCompletion(false)
	return text
}

func (c *Client) diagnostic(msg string) string {
	c.metrics.RecordCompletion(true)
	return msg
}

type nopMetrics struct{}

func (nopMetrics) RecordCompletion(bool) {}
