package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, " req-1 ")
	ctx = WithCompanyID(ctx, "10")
	ctx = WithActor(ctx, "user", "22")
	ctx = WithRequestMeta(ctx, RequestMeta{IPAddress: "10.0.0.1", UserAgent: "curl"})

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "10", CompanyIDFromContext(ctx))
	actorType, actorID := ActorFromContext(ctx)
	assert.Equal(t, "user", actorType)
	assert.Equal(t, "22", actorID)
	assert.Equal(t, "curl", RequestMetaFromContext(ctx).UserAgent)
}
