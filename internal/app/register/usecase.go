package register

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"relaybot/internal/app/ports"
	"relaybot/internal/domain/interaction"

	"github.com/bytedance/sonic"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid register request")

type UseCase struct {
	Platform      ports.PlatformClient
	Registrations ports.CommandRegistrationRepository
	TxManager     ports.TxManager
	Logger        *zap.Logger
	Now           func() time.Time
}

// Execute publishes the descriptor. The platform treats an identical
// descriptor as a no-op update, so this runs on every start; the ledger only
// records whether anything changed since the last run.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.AppID = strings.TrimSpace(req.AppID)
	if req.AppID == "" || u.Platform == nil {
		return Response{}, ErrInvalidRequest
	}
	if err := req.Command.Validate(); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	logger := u.logger().With(zap.String("command", req.Command.Name))

	fingerprint, err := Fingerprint(req.Command)
	if err != nil {
		return Response{}, err
	}

	registered, err := u.Platform.RegisterCommand(ctx, req.AppID, req.Command)
	if err != nil {
		logger.Error("register command failed", zap.Error(err))
		return Response{}, err
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	resp := Response{
		CommandID:    registered.ID,
		Name:         registered.Name,
		Fingerprint:  fingerprint,
		Changed:      true,
		RegisteredAt: nowFn().UTC(),
	}

	if u.Registrations != nil {
		changed, err := u.record(ctx, req.AppID, resp)
		if err != nil {
			logger.Warn("record registration failed", zap.Error(err))
		} else {
			resp.Changed = changed
		}
	}

	logger.Info("command registered",
		zap.String("command_id", resp.CommandID),
		zap.Bool("changed", resp.Changed))
	return resp, nil
}

func (u UseCase) record(ctx context.Context, appID string, resp Response) (bool, error) {
	changed := true
	save := func(txCtx context.Context) error {
		prev, err := u.Registrations.Get(txCtx, appID, resp.Name)
		switch {
		case err == nil:
			changed = prev.Fingerprint != resp.Fingerprint
		case errors.Is(err, ports.ErrNotFound):
		default:
			return err
		}
		return u.Registrations.Save(txCtx, ports.CommandRegistrationRecord{
			AppID:        appID,
			CommandName:  resp.Name,
			CommandID:    resp.CommandID,
			Fingerprint:  resp.Fingerprint,
			RegisteredAt: resp.RegisteredAt,
		})
	}
	if u.TxManager == nil {
		return changed, save(ctx)
	}
	return changed, u.TxManager.RunInTx(ctx, save)
}

// Fingerprint hashes the wire form of a descriptor.
func Fingerprint(cmd interaction.CommandDescriptor) (string, error) {
	b, err := sonic.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("encode command: %w", err)
	}
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func (u UseCase) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}
