package dispatch

import (
	"context"
	"errors"
	"time"

	"relaybot/internal/app/ports"
	"relaybot/internal/domain/completion"
	"relaybot/internal/domain/interaction"

	"go.uber.org/zap"
)

const defaultDeferTimeout = 3 * time.Second

var (
	ErrInvalidRequest  = errors.New("invalid dispatch request")
	ErrUnsupportedKind = errors.New("unsupported interaction kind")
	ErrMissingPrompt   = errors.New("interaction has no prompt option")
)

type UseCase struct {
	Platform  ports.PlatformClient
	Completer ports.Completer
	Tasks     ports.TaskRunner
	Metrics   ports.InteractionMetrics
	Logger    *zap.Logger

	AppID        string
	Model        string
	MaxTokens    int
	DeferTimeout time.Duration
}

// Execute acknowledges one interaction. Pings are answered in the returned
// acknowledgment; commands are deferred over the network before Execute
// returns, and the completion plus follow-up run later on Tasks.
func (u UseCase) Execute(ctx context.Context, in interaction.Interaction) (Response, error) {
	switch in.Kind {
	case interaction.KindPing:
		u.metrics().RecordPong()
		return Response{Ack: interaction.Acknowledgment{Type: interaction.AckPong}}, nil
	case interaction.KindApplicationCommand:
		if u.Platform == nil || u.Completer == nil || u.Tasks == nil {
			return Response{}, ErrInvalidRequest
		}
		return u.handleCommand(ctx, in), nil
	default:
		return Response{}, ErrUnsupportedKind
	}
}

func (u UseCase) handleCommand(ctx context.Context, in interaction.Interaction) Response {
	logger := u.logger().With(zap.String("interaction_id", in.ID), zap.String("command", in.Data.Name))
	resp := Response{Ack: interaction.Acknowledgment{Type: interaction.AckDeferred}}

	deferCtx, cancel := context.WithTimeout(ctx, u.deferTimeout())
	err := u.Platform.Defer(deferCtx, in)
	cancel()
	u.metrics().RecordDeferral(err)
	if err != nil {
		logger.Error("send deferral failed", zap.Error(err))
	} else {
		resp.Deferred = true
	}

	prompt, ok := in.Prompt()
	if !ok {
		u.metrics().RecordMissingPrompt()
		logger.Error("read prompt failed", zap.Error(ErrMissingPrompt))
		return resp
	}

	req := completion.Request{Prompt: prompt, MaxTokens: u.MaxTokens, Model: u.Model}
	token := in.Token
	err = u.Tasks.Submit("follow-up "+in.ID, func(taskCtx context.Context) {
		u.deliver(taskCtx, logger, req, token)
	})
	if err != nil {
		u.metrics().RecordFollowUp(err)
		logger.Error("schedule follow-up failed", zap.Error(err))
		return resp
	}
	resp.Scheduled = true
	return resp
}

func (u UseCase) deliver(ctx context.Context, logger *zap.Logger, req completion.Request, token string) {
	generated := u.Completer.Generate(ctx, req)
	msg := interaction.NewFollowUp(req.Prompt, generated)

	err := u.Platform.SendFollowUp(ctx, u.AppID, token, msg)
	u.metrics().RecordFollowUp(err)
	if err != nil {
		logger.Error("send follow-up failed", zap.Error(err))
		return
	}
	logger.Debug("follow-up delivered", zap.Int("content_length", len(msg.Content)))
}

func (u UseCase) deferTimeout() time.Duration {
	if u.DeferTimeout > 0 {
		return u.DeferTimeout
	}
	return defaultDeferTimeout
}

func (u UseCase) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}

func (u UseCase) metrics() ports.InteractionMetrics {
	if u.Metrics == nil {
		return nopMetrics{}
	}
	return u.Metrics
}

type nopMetrics struct{}

func (nopMetrics) RecordPong() {}
func (nopMetrics) RecordDeferral(error) {}
func (nopMetrics) RecordFollowUp(error) {}
func (nopMetrics) RecordMissingPrompt() {}
func (nopMetrics) RecordDropped() {}
