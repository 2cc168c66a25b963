package rest

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const DefaultTimeout = 30 * time.Second

const unknownStatusMessage = "Unknown Status Code"

// Client is the outbound HTTP client shared by every platform and
// completion call. It holds no per-request state.
type Client struct {
	hc      *client.Client
	timeout time.Duration
}

type Reply struct {
	StatusCode int
	Body       []byte
}

func (r Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r Reply) StatusText() string {
	// hertz answers unknown codes with a placeholder phrase.
	if msg := consts.StatusMessage(r.StatusCode); msg != "" && msg != unknownStatusMessage {
		return msg
	}
	return fmt.Sprintf("status %d", r.StatusCode)
}

// StatusError is returned for a non-success reply whose body the caller
// wants surfaced as the diagnostic.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func (r Reply) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{StatusCode: r.StatusCode, Body: string(r.Body)}
}

func New(timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc, err := client.NewClient(
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
		client.WithDialTimeout(10*time.Second),
		client.WithClientReadTimeout(timeout),
		client.WithWriteTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return &Client{hc: hc, timeout: timeout}, nil
}

// PostJSON sends payload as a JSON body. A non-nil error means no reply was
// received; a reply with any status is returned as-is.
func (c *Client) PostJSON(ctx context.Context, url, authorization string, payload any) (Reply, error) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return Reply{}, fmt.Errorf("encode request body: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(url)
	req.Header.SetContentTypeBytes([]byte(consts.MIMEApplicationJSON))
	req.Header.Set("Accept", consts.MIMEApplicationJSON)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.hc.DoDeadline(ctx, req, resp, deadline); err != nil {
		return Reply{}, fmt.Errorf("post %s: %w", redact(url), err)
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return Reply{StatusCode: resp.StatusCode(), Body: out}, nil
}
