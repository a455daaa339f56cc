package service

import (
	"errors"
	"fmt"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
	"github.com/caddystats/content-backend/pkg/slug"
)

// maxSlugAttempts bounds insert retries when the slug collides.
const maxSlugAttempts = 5

// createWithSlugRetry inserts via create, retrying with a random suffix
// appended to base whenever the slug's unique constraint fires. After
// maxSlugAttempts collisions the conflict is returned to the caller.
func createWithSlugRetry(base string, setSlug func(string), create func() error) error {
	candidate := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		setSlug(candidate)
		err := create()
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return err
		}
		candidate = slug.WithSuffix(base)
	}
	return common.ErrConflict
}

// resolveSlug picks the caller-provided slug when present, otherwise
// derives one from the title. Either way the result is normalized.
// Input with no slug-safe characters at all (e.g. "!!!") yields an
// empty candidate, which is rejected rather than stored.
func resolveSlug(requested *string, title string) (string, error) {
	source := title
	if requested != nil && *requested != "" {
		source = *requested
	}
	candidate := slug.Make(source)
	if candidate == "" {
		return "", fmt.Errorf("%w: %q yields an empty slug", common.ErrInvalidInput, source)
	}
	return candidate, nil
}

// decodeAfter decodes an optional opaque cursor string.
func decodeAfter(after *string) (*pagination.Cursor, error) {
	if after == nil || *after == "" {
		return nil, nil
	}
	return pagination.Decode(*after)
}

// revisionResponses attaches derived version numbers to revisions listed
// newest-first: the newest revision carries the highest version.
func revisionResponses(revisions []*domain.Revision, total int64) []*domain.RevisionResponse {
	out := make([]*domain.RevisionResponse, 0, len(revisions))
	for i, rev := range revisions {
		out = append(out, &domain.RevisionResponse{
			Revision: rev,
			Version:  total - int64(i),
		})
	}
	return out
}
