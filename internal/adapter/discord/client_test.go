package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"relaybot/internal/adapter/rest"
	"relaybot/internal/domain/interaction"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	reply    string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
	status, reply := f.status, f.reply
	f.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(reply))
}

func (f *fakeAPI) first() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return recordedRequest{}
	}
	return f.requests[0]
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	r, err := rest.New(time.Second)
	if err != nil {
		t.Fatalf("rest client: %v", err)
	}
	return NewClient(r, srv.URL+"/api/v10", "bot-token")
}

func TestRegisterCommand_PostsDescriptor(t *testing.T) {
	api := &fakeAPI{status: http.StatusCreated, reply: `{"id":"987","name":"chat","version":"42"}`}
	c := newTestClient(t, api)

	got, err := c.RegisterCommand(context.Background(), "app-1", interaction.DefaultChatCommand())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got.ID != "987" || got.Name != "chat" || got.Version != "42" {
		t.Fatalf("registered=%+v", got)
	}

	req := api.first()
	if req.Method != http.MethodPost || req.Path != "/api/v10/applications/app-1/commands" {
		t.Fatalf("request=%s %s", req.Method, req.Path)
	}
	if req.Auth != "Bot bot-token" {
		t.Fatalf("authorization=%q", req.Auth)
	}
	if req.Body["name"] != "chat" || req.Body["type"] != float64(1) || req.Body["description"] != "Ask the AI Bot something" {
		t.Fatalf("body=%v", req.Body)
	}
	opts, _ := req.Body["options"].([]any)
	if len(opts) != 1 {
		t.Fatalf("options=%v", req.Body["options"])
	}
	opt, _ := opts[0].(map[string]any)
	if opt["name"] != "text" || opt["type"] != float64(3) || opt["required"] != true {
		t.Fatalf("option=%v", opt)
	}
}

func TestRegisterCommand_UndecodableReplyStillSucceeds(t *testing.T) {
	c := newTestClient(t, &fakeAPI{reply: "not json"})
	got, err := c.RegisterCommand(context.Background(), "app-1", interaction.DefaultChatCommand())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got.Name != "chat" || got.ID != "" {
		t.Fatalf("registered=%+v", got)
	}
}

func TestRegisterCommand_FailureStatus(t *testing.T) {
	c := newTestClient(t, &fakeAPI{status: http.StatusUnauthorized, reply: `{"message":"401: Unauthorized"}`})
	_, err := c.RegisterCommand(context.Background(), "app-1", interaction.DefaultChatCommand())
	var statusErr *rest.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
}

func TestDefer_PostsDeferredAck(t *testing.T) {
	api := &fakeAPI{status: http.StatusNoContent}
	c := newTestClient(t, api)

	err := c.Defer(context.Background(), interaction.Interaction{ID: "111", Token: "tok"})
	if err != nil {
		t.Fatalf("defer: %v", err)
	}
	req := api.first()
	if req.Path != "/api/v10/interactions/111/tok/callback" {
		t.Fatalf("path=%q", req.Path)
	}
	if req.Body["type"] != float64(5) || len(req.Body) != 1 {
		t.Fatalf("body=%v", req.Body)
	}
}

func TestSendFollowUp_PostsContent(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)

	err := c.SendFollowUp(context.Background(), "app-1", "tok", interaction.NewFollowUp("hello", "world"))
	if err != nil {
		t.Fatalf("follow-up: %v", err)
	}
	req := api.first()
	if req.Path != "/api/v10/webhooks/app-1/tok" {
		t.Fatalf("path=%q", req.Path)
	}
	if req.Body["content"] != "hello:\rworld" {
		t.Fatalf("body=%v", req.Body)
	}
}

func TestSendFollowUp_ReportsResponseBody(t *testing.T) {
	c := newTestClient(t, &fakeAPI{status: http.StatusNotFound, reply: `{"message":"Unknown Webhook","code":10015}`})
	err := c.SendFollowUp(context.Background(), "app-1", "tok", interaction.FollowUpMessage{Content: "x"})
	if err == nil || !strings.Contains(err.Error(), "Unknown Webhook") {
		t.Fatalf("expected body in error, got %v", err)
	}
}
