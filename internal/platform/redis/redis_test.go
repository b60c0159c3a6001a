package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+srv.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, srv.Exists("k"))
}

func TestOpen_FallsBack(t *testing.T) {
	client, cleanup := Open(context.Background(), "", nil)
	assert.Nil(t, client)
	cleanup()

	client, cleanup = Open(context.Background(), "not a url", nil)
	assert.Nil(t, client)
	cleanup()
}
