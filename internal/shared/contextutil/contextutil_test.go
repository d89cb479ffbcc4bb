package contextutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithClientIP(ctx, "203.0.113.7")

	md := ExtractMetadata(ctx)
	assert.Equal(t, Metadata{RequestID: "req-1", UserID: "user-1", ClientIP: "203.0.113.7"}, md)
}

func TestGetLogger_Fallbacks(t *testing.T) {
	def := zap.NewExample()
	assert.Same(t, def, GetLogger(context.Background(), def))
	assert.NotNil(t, GetLogger(context.Background(), nil))

	scoped := zap.NewExample()
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, GetLogger(ctx, def))
}
