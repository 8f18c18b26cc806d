package hash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedDeterministic(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 64})

	first, err := svc.Embed(context.Background(), "configure tax rounding in the accounting module")
	require.NoError(t, err)
	second, err := svc.Embed(context.Background(), "configure tax rounding in the accounting module")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEmbedDimensions(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 128})

	vec, err := svc.Embed(context.Background(), "hello world")
	require.NoError(t, err)

	assert.Len(t, vec, 128)
	assert.Equal(t, 128, svc.Dimensions())
}

func TestEmbedUnitNorm(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 64})

	vec, err := svc.Embed(context.Background(), "invoice validation workflow")
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sumSquares, 1e-5)
}

func TestEmbedEmptyText(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 32})

	vec, err := svc.Embed(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, vec, 32)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedDistinguishesTexts(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 256})

	a, err := svc.Embed(context.Background(), "sales order confirmation")
	require.NoError(t, err)
	b, err := svc.Embed(context.Background(), "warehouse transfer routes")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEmbedBatch(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 64})

	texts := []string{"first text", "second text", "third text"}
	batch, err := svc.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, err := svc.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i], "batch position %d", i)
	}
}

func TestEmbedBatchEmpty(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	batch, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestModelNameCarriesDimension(t *testing.T) {
	assert.Equal(t, "hash-256", NewEmbeddingService(Config{}).ModelName())
	assert.Equal(t, "hash-512", NewEmbeddingService(Config{Dimensions: 512}).ModelName())
}

func TestPing(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
