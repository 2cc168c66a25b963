package httpadapter

import (
	"context"
	"crypto/ed25519"
	"errors"

	"relaybot/internal/app/dispatch"
	"relaybot/internal/domain/interaction"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

type Handler struct {
	DispatchUC dispatch.UseCase
	KPI        kpiSnapshotProvider
	Dropped    dropRecorder
	Logger     *zap.Logger
	// PublicKey enables request signature checks when set.
	PublicKey ed25519.PublicKey
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.POST("/interactions", signatureMiddleware(h.PublicKey), h.interactions)
	s.GET("/healthz", h.healthz)
	s.GET("/ops/kpi", h.kpi)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type dropRecorder interface {
	RecordDropped()
}

func (h Handler) interactions(c context.Context, ctx *app.RequestContext) {
	in, err := interaction.Decode(ctx.Request.Body())
	if err != nil {
		h.drop()
		h.logger().Warn("drop undecodable interaction", zap.Error(err))
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_interaction", "undecodable interaction")
		return
	}

	resp, err := h.DispatchUC.Execute(c, in)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnsupportedKind) {
			h.drop()
			h.logger().Warn("drop interaction", zap.String("interaction_id", in.ID), zap.Stringer("kind", in.Kind))
		}
		writeError(ctx, err)
		return
	}

	if resp.Ack.Type == interaction.AckPong {
		ctx.JSON(consts.StatusOK, resp.Ack)
		return
	}
	// The deferral already went out over the callback endpoint.
	ctx.SetStatusCode(consts.StatusAccepted)
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) drop() {
	if h.Dropped != nil {
		h.Dropped.RecordDropped()
	}
}

func (h Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, dispatch.ErrUnsupportedKind):
		writeErrorBody(ctx, consts.StatusBadRequest, "unsupported_interaction", err.Error())
	case errors.Is(err, dispatch.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "not_configured", err.Error())
	case errors.Is(err, ErrInvalidSignature):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_signature", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
