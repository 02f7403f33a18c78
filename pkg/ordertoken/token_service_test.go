package ordertoken

import (
	"context"
	"regexp"
	"testing"

	"github.com/m2-berezin/safedine-app/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sid = "session-1"

func TestGenerateToken_Shape(t *testing.T) {
	svc := NewTokenService(session.NewMemoryStore())

	token, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), token)
}

func TestGenerateToken_Uniqueness(t *testing.T) {
	svc := NewTokenService(session.NewMemoryStore())

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		token, err := svc.GenerateToken()
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestTokenStore_RoundTrip(t *testing.T) {
	svc := NewTokenService(session.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.StoreToken(ctx, sid, "order-1", "aaa"))
	require.NoError(t, svc.StoreToken(ctx, sid, "order-2", "bbb"))

	assert.Equal(t, "aaa", svc.GetToken(ctx, sid, "order-1"))
	assert.Equal(t, "", svc.GetToken(ctx, sid, "missing"))

	tokens := svc.ListTokens(ctx, sid)
	assert.Len(t, tokens, 2)
	assert.Equal(t, "bbb", tokens["order-2"])
}

func TestRemoveToken_Idempotent(t *testing.T) {
	svc := NewTokenService(session.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.StoreToken(ctx, sid, "order-1", "aaa"))
	require.NoError(t, svc.RemoveToken(ctx, sid, "order-1"))
	require.NoError(t, svc.RemoveToken(ctx, sid, "order-1"))
	require.NoError(t, svc.RemoveToken(ctx, sid, "never-existed"))

	assert.Empty(t, svc.ListTokens(ctx, sid))
}

func TestCorruptStorage_FailsOpenToEmpty(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, sid, session.NamespaceGuestTokens, []byte("%%%")))

	svc := NewTokenService(store)
	assert.Empty(t, svc.ListTokens(ctx, sid))
	assert.Equal(t, "", svc.GetToken(ctx, sid, "order-1"))

	// Writing over the corrupt value recovers the map.
	require.NoError(t, svc.StoreToken(ctx, sid, "order-1", "ccc"))
	assert.Equal(t, "ccc", svc.GetToken(ctx, sid, "order-1"))
}
