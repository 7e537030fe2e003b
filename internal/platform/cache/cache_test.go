package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/types"
)

func newTestCache(t *testing.T) (UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisUserCache(client, time.Minute), mr
}

func TestRedisUserCache_SetGetDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "uid-1")
	require.NoError(t, err)
	require.Nil(t, got)

	u := &models.User{ID: "u1", FirebaseUID: "uid-1", Email: "a@example.com", CurrentPlan: types.PlanFree}
	require.NoError(t, c.Set(ctx, u))

	got, err = c.Get(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, types.PlanFree, got.CurrentPlan)

	require.NoError(t, c.Delete(ctx, "uid-1"))
	got, err = c.Get(ctx, "uid-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisUserCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &models.User{ID: "u1", FirebaseUID: "uid-1"}))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "uid-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestNop_AlwaysMisses(t *testing.T) {
	var c UserCache = Nop{}
	require.NoError(t, c.Set(context.Background(), &models.User{FirebaseUID: "x"}))
	got, err := c.Get(context.Background(), "x")
	require.NoError(t, err)
	require.Nil(t, got)
}
