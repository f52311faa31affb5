package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Issuer string `json:"issuer"`
	Count  int    `json:"count"`
}

func TestInMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	var got sample
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", sample{Issuer: "ideal_ABNANL2A", Count: 2}, time.Minute))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Issuer: "ideal_ABNANL2A", Count: 2}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	found, _ = c.Get(ctx, "k", &got)
	assert.False(t, found)
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()
	calls := 0
	load := func() ([]int, error) {
		calls++
		return []int{1, 2}, nil
	}

	v, err := GetOrSet(ctx, c, GenerateKey(PrefixTaxRates, 9), time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	v, err = GetOrSet(ctx, c, GenerateKey(PrefixTaxRates, 9), time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)
	assert.Equal(t, 1, calls)

	_, err = GetOrSet(ctx, c, "other", time.Minute, func() ([]int, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "session:v1:abc", GenerateKey(PrefixSession, "abc"))
	assert.Equal(t, "taxrates:v1:9", GenerateKey(PrefixTaxRates, 9))
}
