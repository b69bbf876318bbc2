package service

import (
	"ShrinkIt-Backend/internal/repository"
	"ShrinkIt-Backend/pkg/random"
	"context"
	"fmt"
	"regexp"
	"strings"
)

const DefaultCodeLength = 7

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

// reservedSlugs collide with top level routes.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"health":  {},
	"ready":   {},
	"swagger": {},
	"docs":    {},
}

// Allocator picks the short code for a new link.
type Allocator struct {
	storage repository.Storage
	length  int
}

func NewAllocator(storage repository.Storage, length int) *Allocator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &Allocator{storage: storage, length: length}
}

// Allocate returns customSlug verbatim when it is free, or a random code when
// customSlug is empty. Random codes are not checked here: the unique index
// decides, and a collision surfaces as ErrDuplicateCode on insert.
func (a *Allocator) Allocate(ctx context.Context, customSlug string) (string, error) {
	if customSlug == "" {
		code, err := random.NewRandomString(a.length)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}
		return code, nil
	}

	if err := ValidateSlug(customSlug); err != nil {
		return "", err
	}

	exists, err := a.storage.ShortCodeExists(ctx, customSlug)
	if err != nil {
		return "", fmt.Errorf("failed to check custom slug: %w", err)
	}
	if exists {
		return "", ErrSlugTaken
	}

	return customSlug, nil
}

func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return validationError("Custom name must be 3-64 characters of letters, digits, '-' or '_'.")
	}
	if _, ok := reservedSlugs[strings.ToLower(slug)]; ok {
		return validationError("This custom name is reserved. Please choose another.")
	}
	return nil
}
