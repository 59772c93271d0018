package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCachesAreNoops(t *testing.T) {
	ctx := context.Background()

	tc := NewTokenCache(nil, time.Hour)
	assert.False(t, tc.Enabled())
	assert.NoError(t, tc.SaveRefresh(ctx, "u", "t"))
	_, err := tc.CheckRefresh(ctx, "t")
	assert.ErrorIs(t, err, ErrMiss)

	var cc *CourseCache
	_, err = cc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, cc.Set(ctx, &domain.CourseDetail{}))
	assert.NoError(t, cc.Invalidate(ctx, uuid.New()))
}

func TestCourseCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	cc := NewCourseCache(client, time.Minute)
	detail := &domain.CourseDetail{Course: domain.Course{ID: uuid.New(), Name: "Go"}}
	require.NoError(t, cc.Set(ctx, detail))

	got, err := cc.Get(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Name)

	require.NoError(t, cc.Invalidate(ctx, detail.ID))
	_, err = cc.Get(ctx, detail.ID)
	assert.ErrorIs(t, err, ErrMiss)
}
