//go:build integration

package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identitystore "campusconnect/internal/identity/store"
	platformredis "campusconnect/internal/platform/redis"
	registrationstore "campusconnect/internal/registration/store"
	"campusconnect/pkg/testutil/containers"
)

// TestTopRedisCache verifies the read-through cache: inside the TTL the
// board is served from redis, and expiry causes a recompute.
func TestTopRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	cache := &platformredis.Client{Client: rc.Client}

	users := identitystore.NewMemory()
	ledger := registrationstore.NewMemory()

	userID := seedUser(t, users, "alice")
	seedRegistrations(t, ledger, userID, 2)

	svc := New(ledger, users, WithCache(cache, 200*time.Millisecond))

	first, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 2, first[0].Count)

	// New registrations are invisible while the cached board is fresh.
	seedRegistrations(t, ledger, userID, 3)
	cached, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, cached[0].Count, "cached board served inside TTL")

	// After expiry the board reflects the ledger again.
	time.Sleep(300 * time.Millisecond)
	fresh, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, fresh[0].Count)
}
