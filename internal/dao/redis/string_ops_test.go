package redis

import (
	"context"
	"testing"
	"time"

	"mentor_chat_server/pkg/errorx"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

func TestSetAndGetKey(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetKeyEx(ctx, "room_messages_R1", `[{"uuid":1}]`, time.Minute))

	got, err := GetKey(ctx, "room_messages_R1")
	require.NoError(t, err)
	assert.Equal(t, `[{"uuid":1}]`, got)
}

func TestGetKeyMissingIsNotError(t *testing.T) {
	setupMiniredis(t)

	got, err := GetKey(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetKeyNilIsErr(t *testing.T) {
	setupMiniredis(t)

	_, err := GetKeyNilIsErr(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestDelKeysWithPrefix(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetKeyEx(ctx, "room_messages_R1", "a", time.Minute))
	require.NoError(t, SetKeyEx(ctx, "room_messages_R2", "b", time.Minute))
	require.NoError(t, SetKeyEx(ctx, "other", "c", time.Minute))

	require.NoError(t, DelKeysWithPrefix(ctx, "room_messages_"))

	got, err := GetKey(ctx, "room_messages_R1")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = GetKey(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "c", got)
}

func TestSubmitCacheTaskFallsBackSynchronously(t *testing.T) {
	setupMiniredis(t)

	// 缓冲为 0 的通道必然走同步降级分支
	cacheTaskChan = make(chan *cacheTask)
	done := make(chan struct{})
	SubmitCacheTask(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cache task was not executed")
	}
}
