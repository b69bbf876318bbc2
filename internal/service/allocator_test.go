package service

import (
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository/memory"
	"ShrinkIt-Backend/pkg/random"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_RandomCode(t *testing.T) {
	a := NewAllocator(memory.New(), 0)

	code, err := a.Allocate(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(random.Alphabet, r), string(r))
	}
}

func TestAllocator_CustomSlug(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	a := NewAllocator(storage, DefaultCodeLength)

	code, err := a.Allocate(ctx, "my-promo")
	require.NoError(t, err)
	assert.Equal(t, "my-promo", code)

	require.NoError(t, storage.CreateLink(ctx, &domain.Link{UserID: 1, OriginalURL: "https://a.b", ShortCode: "my-promo", IsActive: true}))

	_, err = a.Allocate(ctx, "my-promo")
	assert.ErrorIs(t, err, ErrSlugTaken)
	assert.NotErrorIs(t, err, ErrDuplicateCode)
}

func TestValidateSlug(t *testing.T) {
	for _, slug := range []string{"abc", "A_b-9", strings.Repeat("x", 64)} {
		assert.NoError(t, ValidateSlug(slug), slug)
	}
	for _, slug := range []string{"ab", "has space", "slash/y", "émoji", strings.Repeat("x", 65), "api", "Swagger"} {
		assert.ErrorIs(t, ValidateSlug(slug), ErrValidation, slug)
	}
}
