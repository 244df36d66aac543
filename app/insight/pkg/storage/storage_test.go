package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/config"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "slot", []byte(`{"v":1}`)))
	require.NoError(t, kv.Set(ctx, "slot", []byte(`{"v":"二"}`)))

	got, ok, err := kv.Get(ctx, "slot")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":"二"}`, string(got))
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.db")
	kv, err := Open(config.StorageConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	defer kv.Close()

	exerciseKV(t, kv)
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	kv, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", []byte("persisted")))
	require.NoError(t, kv.Close())

	kv, err = NewSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", string(got))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.StorageConfig{Driver: "etcd"})
	assert.Error(t, err)
}
