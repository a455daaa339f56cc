// Package workflow enforces editorial status transitions for content
// entities. The policy lives in a single static table so it can be
// audited and tested in isolation.
package workflow

import (
	"time"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

// transitions maps each status to the set of statuses it may move to.
// The table is intentionally asymmetric: archived content must pass
// through draft before it can be published again.
var transitions = map[domain.Status]map[domain.Status]bool{
	domain.StatusDraft:     {domain.StatusReview: true, domain.StatusPublished: true},
	domain.StatusReview:    {domain.StatusDraft: true, domain.StatusPublished: true},
	domain.StatusPublished: {domain.StatusDraft: true, domain.StatusArchived: true},
	domain.StatusArchived:  {domain.StatusDraft: true},
}

// CanTransition reports whether the edge current → target exists.
// Undefined pairs, self-loops included, return false.
func CanTransition(current, target domain.Status) bool {
	return transitions[current][target]
}

// Publish moves the entity to published. published_at is set only if it
// was never set before, so re-publishing keeps the original timestamp.
func Publish(f *domain.ContentFields) error {
	if f.IsDeleted {
		return common.ErrNotFound
	}
	if !CanTransition(f.Status, domain.StatusPublished) {
		return common.ErrInvalidTransition
	}

	now := time.Now().UTC()
	f.Status = domain.StatusPublished
	if f.PublishedAt == nil {
		f.PublishedAt = &now
	}
	f.UpdatedAt = now
	return nil
}

// Unpublish moves the entity back to draft and clears published_at.
func Unpublish(f *domain.ContentFields) error {
	if f.IsDeleted {
		return common.ErrNotFound
	}
	if !CanTransition(f.Status, domain.StatusDraft) {
		return common.ErrInvalidTransition
	}

	f.Status = domain.StatusDraft
	f.PublishedAt = nil
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Archive moves the entity to archived and stamps archived_at.
func Archive(f *domain.ContentFields) error {
	if f.IsDeleted {
		return common.ErrNotFound
	}
	if !CanTransition(f.Status, domain.StatusArchived) {
		return common.ErrInvalidTransition
	}

	now := time.Now().UTC()
	f.Status = domain.StatusArchived
	f.ArchivedAt = &now
	f.UpdatedAt = now
	return nil
}

// SubmitForReview moves a draft into review.
func SubmitForReview(f *domain.ContentFields) error {
	if f.IsDeleted {
		return common.ErrNotFound
	}
	if !CanTransition(f.Status, domain.StatusReview) {
		return common.ErrInvalidTransition
	}

	f.Status = domain.StatusReview
	f.UpdatedAt = time.Now().UTC()
	return nil
}
