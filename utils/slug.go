package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	slugUnsafe    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[-\s]+`)
)

// maxSlugAttempts bounds the suffix search before giving up.
const maxSlugAttempts = 1000

// Slugify lowercases s, folds accents to ASCII and joins words with hyphens.
// "Café Déjà Vu!" becomes "cafe-deja-vu".
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	out := slugUnsafe.ReplaceAllString(strings.ToLower(b.String()), "")
	out = slugSeparator.ReplaceAllString(strings.TrimSpace(out), "-")
	return strings.Trim(out, "-_")
}

// SlugExistsFunc reports whether a slug is already taken.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns base, or base-1, base-2, ... for the first one not taken.
func UniqueSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	if base == "" {
		base = "item"
	}
	candidate := base
	for n := 1; n <= maxSlugAttempts; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}

// UniqueRandomSlug returns base, or base with a short random hex suffix until one is free.
func UniqueRandomSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	candidate := base
	for n := 0; n < maxSlugAttempts; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
