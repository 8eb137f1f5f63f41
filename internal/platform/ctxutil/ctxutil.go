// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries request-scoped values of the nomination API through
[context.Context]: the correlation ID, the request logger and the claims of
the reviewer who sent the request.

Applicant requests are anonymous, so GetAuthUser is nil on every public route.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/laureate/internal/platform/ctxkey"
	"github.com/taibuivan/laureate/internal/platform/sec"
)

// # Correlation

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the X-Request-ID value, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Logging

// WithLogger attaches the request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to slog.Default for
// background work and CLI calls.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

/*
AnnotateLogger narrows the request logger with attrs, e.g. the submission ID
once it is known, and stores the result in the returned context so every
later log line of the submission carries it.
*/
func AnnotateLogger(ctx context.Context, attrs ...slog.Attr) (context.Context, *slog.Logger) {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	logger := GetLogger(ctx).With(args...)
	return WithLogger(ctx, logger), logger
}

// # Reviewer identity

// WithAuthUser attaches verified reviewer claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the reviewer claims, or nil for an anonymous request.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	return claims
}
