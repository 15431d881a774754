package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+srv.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := srv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)

	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()
	_, err = NewRedisClient(context.Background(), "redis://"+addr)
	assert.Error(t, err)
}

func TestNewPgxPool_RejectsEmptyURL(t *testing.T) {
	_, err := NewPgxPool(context.Background(), "", false)
	assert.Error(t, err)
}
