package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/base-angewandte/baseauth/pkg/cache/memory"
	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/models"
)

type failingStore struct{ memory.Cache }

func (*failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (*failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestMemoRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := NewMemo(store, 0, nil)

	in := []models.ConceptRecord{{Source: "http://x/1", Label: models.Label{"en": "One"}}}
	m.Set(ctx, "k", in)

	var out []models.ConceptRecord
	require.True(t, m.Get(ctx, "k", &out))
	assert.Equal(t, in, out)

	var missing []models.ConceptRecord
	assert.False(t, m.Get(ctx, "other", &missing))
}

func TestMemoBackendErrorsAreMisses(t *testing.T) {
	ctx := context.Background()
	m := NewMemo(&failingStore{}, time.Hour, nil)

	m.Set(ctx, "k", "v")
	var out string
	assert.False(t, m.Get(ctx, "k", &out))
}

func TestNilMemo(t *testing.T) {
	var m *Memo
	var out string
	assert.False(t, m.Get(context.Background(), "k", &out))
	m.Set(context.Background(), "k", "v")
}

func TestHashKeyStable(t *testing.T) {
	a := HashKey("http://x", "", "false", "base", "en")
	b := HashKey("http://x", "", "false", "base", "en")
	c := HashKey("http://x", "", "false", "base", "de")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.CacheConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	s, err = Open(config.CacheConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	s, err = Open(config.CacheConfig{Backend: "bolt", Path: filepath.Join(t.TempDir(), "c.bolt")})
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	_, err = Open(config.CacheConfig{Backend: "nope"})
	assert.Error(t, err)
}
