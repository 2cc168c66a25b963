package httpadapter

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
)

const (
	signatureHeader = "X-Signature-Ed25519"
	timestampHeader = "X-Signature-Timestamp"
)

var ErrInvalidSignature = errors.New("invalid request signature")

// signatureMiddleware rejects requests whose Ed25519 signature over
// timestamp+body does not match key. A nil key disables the check.
func signatureMiddleware(key ed25519.PublicKey) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if len(key) == 0 {
			ctx.Next(c)
			return
		}
		if !verifySignature(key, ctx.GetHeader(timestampHeader), ctx.GetHeader(signatureHeader), ctx.Request.Body()) {
			writeError(ctx, ErrInvalidSignature)
			ctx.Abort()
			return
		}
		ctx.Next(c)
	}
}

func verifySignature(key ed25519.PublicKey, timestamp, signature, body []byte) bool {
	if len(timestamp) == 0 || len(signature) == 0 {
		return false
	}
	sig, err := hex.DecodeString(string(signature))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)
	return ed25519.Verify(key, msg, sig)
}
