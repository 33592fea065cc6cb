package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kdduha/reels-caption/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)
	c := NewRedisCache(srv.Addr(), "", 0, time.Minute)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, found, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.False(t, found)

	entry := models.CachedCaption{
		Caption:   "Gemes banget\n#fyp",
		MediaKind: "video",
		Style:     models.StyleLucu,
		Length:    models.LengthShort,
	}
	require.NoError(t, c.Set(ctx, "abc", entry))
	require.True(t, srv.Exists("caption:abc"))

	stored, err := srv.Get("caption:abc")
	require.NoError(t, err)
	require.JSONEq(t, `{"caption":"Gemes banget\n#fyp","media_kind":"video","style":"lucu","length":"short"}`, stored)

	got, found, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, entry, got)

	srv.FastForward(2 * time.Minute)
	_, found, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisCacheRejectsForeignValues(t *testing.T) {
	srv := miniredis.RunT(t)
	c := NewRedisCache(srv.Addr(), "", 0, time.Minute)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, srv.Set("caption:plain", "just a string"))
	_, found, err := c.Get(ctx, "plain")
	require.Error(t, err)
	require.False(t, found)

	require.NoError(t, srv.Set("caption:empty", `{"media_kind":"image"}`))
	_, found, err = c.Get(ctx, "empty")
	require.Error(t, err)
	require.False(t, found)
}

func TestRedisCacheUnavailable(t *testing.T) {
	srv := miniredis.RunT(t)
	c := NewRedisCache(srv.Addr(), "", 0, time.Minute)
	defer c.Close()
	srv.Close()

	_, found, err := c.Get(context.Background(), "abc")
	require.Error(t, err)
	require.False(t, found)
}
