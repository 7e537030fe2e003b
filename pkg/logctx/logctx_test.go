package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromCtx_PrefersAttachedLogger(t *testing.T) {
	base := zap.NewNop().Sugar()
	attached := zap.NewNop().Sugar().With("k", "v")
	ctx := context.WithValue(context.Background(), LoggerKey, attached)
	require.Same(t, attached, FromCtx(ctx, base))
}

func TestFromCtx_FallsBackToBase(t *testing.T) {
	base := zap.NewNop().Sugar()
	require.Same(t, base, FromCtx(context.Background(), base))
	require.Same(t, base, FromCtx(nil, base)) //nolint:staticcheck
}

func TestTraceID(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, "trace-1")
	require.Equal(t, "trace-1", TraceID(ctx))
	require.Equal(t, "", TraceID(context.Background()))
}
