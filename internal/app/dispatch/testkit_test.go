package dispatch

import (
	"context"
	"sync"

	"relaybot/internal/app/ports"
	"relaybot/internal/domain/completion"
	"relaybot/internal/domain/interaction"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakePlatform struct {
	log         *callLog
	deferErr    error
	followUpErr error

	mu        sync.Mutex
	deferrals []interaction.Interaction
	followUps []sentFollowUp
}

type sentFollowUp struct {
	AppID string
	Token string
	Msg   interaction.FollowUpMessage
}

func (f *fakePlatform) RegisterCommand(context.Context, string, interaction.CommandDescriptor) (ports.RegisteredCommand, error) {
	return ports.RegisteredCommand{}, nil
}

func (f *fakePlatform) Defer(_ context.Context, in interaction.Interaction) error {
	f.mu.Lock()
	f.deferrals = append(f.deferrals, in)
	f.mu.Unlock()
	if f.log != nil {
		f.log.add("defer")
	}
	return f.deferErr
}

func (f *fakePlatform) SendFollowUp(_ context.Context, appID, token string, msg interaction.FollowUpMessage) error {
	f.mu.Lock()
	f.followUps = append(f.followUps, sentFollowUp{AppID: appID, Token: token, Msg: msg})
	f.mu.Unlock()
	if f.log != nil {
		f.log.add("follow-up")
	}
	return f.followUpErr
}

func (f *fakePlatform) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deferrals), len(f.followUps)
}

type fakeCompleter struct {
	log  *callLog
	text string

	mu   sync.Mutex
	reqs []completion.Request
}

func (f *fakeCompleter) Generate(_ context.Context, req completion.Request) string {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.log != nil {
		f.log.add("generate")
	}
	return f.text
}

// queuedTasks holds submitted work until run is called, so tests can observe
// the state between acknowledgment and follow-up.
type queuedTasks struct {
	err   error
	tasks []func(ctx context.Context)
}

func (q *queuedTasks) Submit(_ string, fn func(ctx context.Context)) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, fn)
	return nil
}

func (q *queuedTasks) run() {
	for _, fn := range q.tasks {
		fn(context.Background())
	}
	q.tasks = nil
}

type fakeMetrics struct {
	pongs, deferOK, deferFail, followOK, followFail, missing int
}

func (m *fakeMetrics) RecordPong() { m.pongs++ }
func (m *fakeMetrics) RecordDeferral(err error) {
	if err != nil {
		m.deferFail++
		return
	}
	m.deferOK++
}
func (m *fakeMetrics) RecordFollowUp(err error) {
	if err != nil {
		m.followFail++
		return
	}
	m.followOK++
}
func (m *fakeMetrics) RecordMissingPrompt() { m.missing++ }
func (m *fakeMetrics) RecordDropped() {}

func commandInteraction(options ...interaction.Option) interaction.Interaction {
	return interaction.Interaction{
		ID:    "i-1",
		Token: "tok-1",
		Kind:  interaction.KindApplicationCommand,
		Data:  interaction.Data{Name: "chat", Options: options},
	}
}

func newUseCase(p *fakePlatform, c *fakeCompleter, tasks ports.TaskRunner, m ports.InteractionMetrics) UseCase {
	return UseCase{
		Platform:  p,
		Completer: c,
		Tasks:     tasks,
		Metrics:   m,
		AppID:     "app-1",
		Model:     completion.DefaultModel,
		MaxTokens: completion.DefaultMaxTokens,
	}
}
