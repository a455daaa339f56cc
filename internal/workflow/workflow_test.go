package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

var allStatuses = []domain.Status{
	domain.StatusDraft,
	domain.StatusReview,
	domain.StatusPublished,
	domain.StatusArchived,
}

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := map[domain.Status][]domain.Status{
		domain.StatusDraft:     {domain.StatusReview, domain.StatusPublished},
		domain.StatusReview:    {domain.StatusDraft, domain.StatusPublished},
		domain.StatusPublished: {domain.StatusDraft, domain.StatusArchived},
		domain.StatusArchived:  {domain.StatusDraft},
	}

	for from, targets := range allowed {
		for _, to := range targets {
			assert.True(t, CanTransition(from, to), "%s -> %s should be allowed", from, to)
		}
	}
}

func TestCanTransition_UndefinedPairsFalse(t *testing.T) {
	allowed := map[domain.Status]map[domain.Status]bool{
		domain.StatusDraft:     {domain.StatusReview: true, domain.StatusPublished: true},
		domain.StatusReview:    {domain.StatusDraft: true, domain.StatusPublished: true},
		domain.StatusPublished: {domain.StatusDraft: true, domain.StatusArchived: true},
		domain.StatusArchived:  {domain.StatusDraft: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if allowed[from][to] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
		}
	}

	// Self-loops are never legal
	for _, s := range allStatuses {
		assert.False(t, CanTransition(s, s))
	}

	// Unknown states have no edges
	assert.False(t, CanTransition("bogus", domain.StatusPublished))
	assert.False(t, CanTransition(domain.StatusDraft, "bogus"))
}

func TestPublish_FromDraft(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusDraft}

	err := Publish(f)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, f.Status)
	assert.NotNil(t, f.PublishedAt)
	assert.False(t, f.UpdatedAt.IsZero())
}

func TestPublish_KeepsFirstTimestamp(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusDraft}
	assert.NoError(t, Publish(f))
	first := *f.PublishedAt

	// Entity drops back to draft without clearing published_at
	// (e.g. restored from archive), then is published again.
	f.Status = domain.StatusDraft
	time.Sleep(5 * time.Millisecond)
	assert.NoError(t, Publish(f))

	assert.Equal(t, first, *f.PublishedAt, "re-publish must keep the first publish timestamp")
}

func TestPublish_InvalidTransition(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusArchived}

	err := Publish(f)

	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	assert.Equal(t, domain.StatusArchived, f.Status)
}

func TestPublish_SoftDeleted(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusDraft, IsDeleted: true}

	assert.ErrorIs(t, Publish(f), common.ErrNotFound)
}

func TestUnpublish_ClearsPublishedAt(t *testing.T) {
	now := time.Now().UTC()
	f := &domain.ContentFields{Status: domain.StatusPublished, PublishedAt: &now}

	err := Unpublish(f)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, f.Status)
	assert.Nil(t, f.PublishedAt)
}

func TestUnpublish_FromArchived(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusArchived}

	assert.NoError(t, Unpublish(f))
	assert.Equal(t, domain.StatusDraft, f.Status)
}

func TestArchive_SetsArchivedAt(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusPublished}

	err := Archive(f)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, f.Status)
	assert.NotNil(t, f.ArchivedAt)
}

func TestArchive_FromDraftRejected(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusDraft}

	assert.ErrorIs(t, Archive(f), common.ErrInvalidTransition)
}

func TestSubmitForReview(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusDraft}

	assert.NoError(t, SubmitForReview(f))
	assert.Equal(t, domain.StatusReview, f.Status)

	// published -> review is not in the table
	f.Status = domain.StatusPublished
	assert.ErrorIs(t, SubmitForReview(f), common.ErrInvalidTransition)
}

// Full lifecycle: draft -> published -> archived, then publish is rejected
// because archived content must pass through draft first.
func TestLifecycle_PublishArchiveRepublish(t *testing.T) {
	f := &domain.ContentFields{Status: domain.StatusDraft}

	assert.NoError(t, Publish(f))
	assert.Equal(t, domain.StatusPublished, f.Status)
	assert.NotNil(t, f.PublishedAt)

	assert.NoError(t, Archive(f))
	assert.Equal(t, domain.StatusArchived, f.Status)

	assert.ErrorIs(t, Publish(f), common.ErrInvalidTransition)
}
