package caching

import (
	"context"
	"testing"
	"time"

	"closetrent/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	id := uuid.MustParse("0b7f7a52-3c1e-4f0e-8f4e-2f2a9b9d6c11")
	assert.Equal(t, "closetrent:clothes:0b7f7a52-3c1e-4f0e-8f4e-2f2a9b9d6c11", clothesKey(id))
	assert.Equal(t, "closetrent:clothes:list", clothesListKey())
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	cache := NewNoopCacheService()
	c := &models.Clothes{ID: uuid.New(), Name: "Kimono"}

	require.NoError(t, cache.SetClothes(ctx, c, time.Minute))
	got, err := cache.GetClothes(ctx, c.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.SetClothesList(ctx, []*models.Clothes{c}, time.Minute))
	list, err := cache.GetClothesList(ctx)
	assert.NoError(t, err)
	assert.Nil(t, list)

	assert.NoError(t, cache.DeleteClothes(ctx, c.ID))
	assert.NoError(t, cache.InvalidateClothesList(ctx))
	assert.NoError(t, cache.InvalidateAll(ctx))
	assert.NoError(t, cache.Ping(ctx))
}

func TestNewRedisCacheService_RejectsBadURL(t *testing.T) {
	_, err := NewRedisCacheService("redis://:bad@host:notaport/zz", "", 0)
	assert.Error(t, err)
}
