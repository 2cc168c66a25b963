package register

import (
	"context"
	"errors"
	"testing"
	"time"

	"relaybot/internal/adapter/repo/memory"
	"relaybot/internal/app/ports"
	"relaybot/internal/domain/interaction"
)

type fakePlatform struct {
	calls int
	err   error
	last  interaction.CommandDescriptor
}

func (f *fakePlatform) RegisterCommand(_ context.Context, _ string, cmd interaction.CommandDescriptor) (ports.RegisteredCommand, error) {
	f.calls++
	f.last = cmd
	if f.err != nil {
		return ports.RegisteredCommand{}, f.err
	}
	return ports.RegisteredCommand{ID: "cmd-1", Name: cmd.Name}, nil
}

func (f *fakePlatform) Defer(context.Context, interaction.Interaction) error { return nil }

func (f *fakePlatform) SendFollowUp(context.Context, string, string, interaction.FollowUpMessage) error {
	return nil
}

type failingRepo struct{}

func (failingRepo) Get(context.Context, string, string) (ports.CommandRegistrationRecord, error) {
	return ports.CommandRegistrationRecord{}, errors.New("db down")
}

func (failingRepo) Save(context.Context, ports.CommandRegistrationRecord) error {
	return errors.New("db down")
}

func newUseCase(p *fakePlatform) UseCase {
	store := memory.NewStore()
	return UseCase{
		Platform:      p,
		Registrations: memory.NewCommandRegistrationRepo(store),
		TxManager:     memory.NewTxManager(store),
		Now:           func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestExecute_RegistersAndRecords(t *testing.T) {
	p := &fakePlatform{}
	uc := newUseCase(p)

	resp, err := uc.Execute(context.Background(), Request{AppID: "app-1", Command: interaction.DefaultChatCommand()})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.calls != 1 || p.last.Name != "chat" {
		t.Fatalf("platform calls=%d last=%+v", p.calls, p.last)
	}
	if resp.CommandID != "cmd-1" || !resp.Changed || resp.Fingerprint == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.RegisteredAt.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("registered_at=%v", resp.RegisteredAt)
	}
}

func TestExecute_UnchangedDescriptorIsNoOp(t *testing.T) {
	p := &fakePlatform{}
	uc := newUseCase(p)
	req := Request{AppID: "app-1", Command: interaction.DefaultChatCommand()}

	first, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	second, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if second.Changed {
		t.Fatalf("expected unchanged on re-registration")
	}
	if first.Fingerprint != second.Fingerprint {
		t.Fatalf("fingerprint drift: %s != %s", first.Fingerprint, second.Fingerprint)
	}
	if p.calls != 2 {
		t.Fatalf("expected registration on every run, calls=%d", p.calls)
	}

	edited := interaction.DefaultChatCommand()
	edited.Description = "Ask something else"
	third, err := uc.Execute(context.Background(), Request{AppID: "app-1", Command: edited})
	if err != nil {
		t.Fatalf("third register: %v", err)
	}
	if !third.Changed {
		t.Fatalf("expected changed after description edit")
	}
}

func TestExecute_PlatformFailureReturned(t *testing.T) {
	p := &fakePlatform{err: errors.New("401 unauthorized")}
	_, err := newUseCase(p).Execute(context.Background(), Request{AppID: "app-1", Command: interaction.DefaultChatCommand()})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestExecute_LedgerFailureIsNotFatal(t *testing.T) {
	uc := UseCase{Platform: &fakePlatform{}, Registrations: failingRepo{}}
	resp, err := uc.Execute(context.Background(), Request{AppID: "app-1", Command: interaction.DefaultChatCommand()})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !resp.Changed {
		t.Fatalf("expected changed when ledger is unavailable")
	}
}

func TestExecute_InvalidRequest(t *testing.T) {
	uc := newUseCase(&fakePlatform{})
	cases := []Request{
		{AppID: " ", Command: interaction.DefaultChatCommand()},
		{AppID: "app-1", Command: interaction.CommandDescriptor{}},
	}
	for i, req := range cases {
		if _, err := uc.Execute(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("case %d: expected ErrInvalidRequest, got %v", i, err)
		}
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a, err := Fingerprint(interaction.DefaultChatCommand())
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	b, _ := Fingerprint(interaction.DefaultChatCommand())
	if a != b || len(a) != 64 {
		t.Fatalf("fingerprints %q %q", a, b)
	}
}
