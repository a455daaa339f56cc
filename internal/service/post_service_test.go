package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *domain.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(id uuid.UUID) (*domain.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepository) FindBySlug(slug string) (*domain.Post, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepository) Save(post *domain.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) UpdateWithRevision(post *domain.Post, revision *domain.Revision) error {
	args := m.Called(post, revision)
	return args.Error(0)
}

func (m *MockPostRepository) SoftDelete(post *domain.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Post, error) {
	args := m.Called(after, limit, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Post), args.Error(1)
}

func (m *MockPostRepository) AttachTags(post *domain.Post, tags []*domain.Tag) error {
	args := m.Called(post, tags)
	return args.Error(0)
}

func (m *MockPostRepository) AttachCategories(post *domain.Post, categories []*domain.Category) error {
	args := m.Called(post, categories)
	return args.Error(0)
}

type MockRevisionRepository struct {
	mock.Mock
}

func (m *MockRevisionRepository) Create(revision *domain.Revision) error {
	args := m.Called(revision)
	return args.Error(0)
}

func (m *MockRevisionRepository) ListByEntity(entityType string, entityID uuid.UUID) ([]*domain.Revision, error) {
	args := m.Called(entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Revision), args.Error(1)
}

func (m *MockRevisionRepository) CountByEntity(entityType string, entityID uuid.UUID) (int64, error) {
	args := m.Called(entityType, entityID)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) CreateTag(tag *domain.Tag) error {
	args := m.Called(tag)
	return args.Error(0)
}

func (m *MockTaxonomyRepository) FindTagBySlug(slug string) (*domain.Tag, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *MockTaxonomyRepository) FindTagsByID(ids []uuid.UUID) ([]*domain.Tag, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tag), args.Error(1)
}

func (m *MockTaxonomyRepository) ListTags() ([]*domain.Tag, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tag), args.Error(1)
}

func (m *MockTaxonomyRepository) CreateCategory(category *domain.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockTaxonomyRepository) FindCategoryBySlug(slug string) (*domain.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockTaxonomyRepository) FindCategoriesByID(ids []uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockTaxonomyRepository) ListCategories() ([]*domain.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

// noopAudit satisfies AuditService for tests that do not assert on audit rows
type noopAudit struct{}

func (noopAudit) Record(*uuid.UUID, string, string, *uuid.UUID, map[string]interface{}) {}

func viewerWith(perms ...string) *authz.Viewer {
	v := &authz.Viewer{
		UserID:      uuid.New(),
		Roles:       map[string]struct{}{},
		Permissions: map[string]struct{}{},
	}
	for _, p := range perms {
		v.Permissions[p] = struct{}{}
	}
	return v
}

func newPostServiceForTest(postRepo *MockPostRepository, revisionRepo *MockRevisionRepository) PostService {
	return NewPostService(postRepo, revisionRepo, new(MockTaxonomyRepository), noopAudit{})
}

func TestPostCreate_DerivesSlugFromTitle(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	postRepo.On("Create", mock.AnythingOfType("*domain.Post")).Return(nil).Once()

	post, err := svc.Create(viewerWith(authz.PermPostCreate), &domain.CreateContentRequest{Title: "Hello, World!"})

	assert.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, domain.StatusDraft, post.Status)
	postRepo.AssertExpectations(t)
}

func TestPostCreate_SlugCollisionRetriesWithSuffix(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	postRepo.On("Create", mock.AnythingOfType("*domain.Post")).Return(common.ErrConflict).Once()
	postRepo.On("Create", mock.AnythingOfType("*domain.Post")).Return(nil).Once()

	post, err := svc.Create(viewerWith(authz.PermPostCreate), &domain.CreateContentRequest{Title: "Hello World"})

	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^hello-world-[0-9a-f]{6}$`), post.Slug)
	postRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestPostCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	postRepo.On("Create", mock.AnythingOfType("*domain.Post")).Return(common.ErrConflict)

	_, err := svc.Create(viewerWith(authz.PermPostCreate), &domain.CreateContentRequest{Title: "Hello World"})

	assert.ErrorIs(t, err, common.ErrConflict)
	postRepo.AssertNumberOfCalls(t, "Create", maxSlugAttempts)
}

func TestPostCreate_PunctuationOnlyTitleRejected(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	_, err := svc.Create(viewerWith(authz.PermPostCreate), &domain.CreateContentRequest{Title: "!!!"})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	postRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestPostCreate_RequiresPermission(t *testing.T) {
	svc := newPostServiceForTest(new(MockPostRepository), new(MockRevisionRepository))

	_, err := svc.Create(viewerWith(), &domain.CreateContentRequest{Title: "x"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.Create(nil, &domain.CreateContentRequest{Title: "x"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestPostUpdate_SnapshotRecordsPreUpdateState(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	author := viewerWith()
	post := &domain.Post{ContentFields: domain.ContentFields{
		ID:       uuid.New(),
		AuthorID: author.UserID,
		Slug:     "original",
		Title:    "A",
		Status:   domain.StatusDraft,
	}}

	postRepo.On("FindByID", post.ID).Return(post, nil)
	postRepo.On("UpdateWithRevision", post, mock.AnythingOfType("*domain.Revision")).Return(nil)

	newTitle := "B"
	updated, err := svc.Update(author, post.ID, &domain.UpdateContentRequest{Title: &newTitle})

	assert.NoError(t, err)
	assert.Equal(t, "B", updated.Title)

	revision := postRepo.Calls[1].Arguments.Get(1).(*domain.Revision)
	assert.Equal(t, domain.EntityPost, revision.EntityType)
	assert.Equal(t, post.ID, revision.EntityID)
	assert.Contains(t, string(revision.Snapshot), `"title":"A"`)
	assert.NotContains(t, string(revision.Snapshot), `"title":"B"`)
}

func TestPostUpdate_NonAuthorWithoutPermissionForbidden(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	post := &domain.Post{ContentFields: domain.ContentFields{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Title:    "A",
	}}
	postRepo.On("FindByID", post.ID).Return(post, nil)

	title := "B"
	_, err := svc.Update(viewerWith(), post.ID, &domain.UpdateContentRequest{Title: &title})

	assert.ErrorIs(t, err, common.ErrForbidden)
	postRepo.AssertNotCalled(t, "UpdateWithRevision", mock.Anything, mock.Anything)
}

func TestPostPublish_RequiresPublishPermissionEvenForAuthor(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	author := viewerWith()
	post := &domain.Post{ContentFields: domain.ContentFields{
		ID:       uuid.New(),
		AuthorID: author.UserID,
		Status:   domain.StatusDraft,
	}}
	postRepo.On("FindByID", post.ID).Return(post, nil)

	_, err := svc.Publish(author, post.ID)

	assert.ErrorIs(t, err, common.ErrForbidden)
	postRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPostPublish_UnauthorizedCallerNeverTouchesTheRepo(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	id := uuid.New()

	_, err := svc.Publish(viewerWith(), id)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.Publish(nil, id)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Archive(viewerWith(), id)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// The response must not reveal whether the ID exists.
	postRepo.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestPostPublish_SetsStatusAndTimestamp(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	publisher := viewerWith(authz.PermPostPublish)
	post := &domain.Post{ContentFields: domain.ContentFields{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Status:   domain.StatusDraft,
	}}
	postRepo.On("FindByID", post.ID).Return(post, nil)
	postRepo.On("Save", post).Return(nil)

	published, err := svc.Publish(publisher, post.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)
}

func TestPostPublish_ArchivedRejected(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	post := &domain.Post{ContentFields: domain.ContentFields{
		ID:     uuid.New(),
		Status: domain.StatusArchived,
	}}
	postRepo.On("FindByID", post.ID).Return(post, nil)

	_, err := svc.Publish(viewerWith(authz.PermPostPublish), post.ID)

	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	postRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPostDelete_AuthorWithoutPermissionsAllowed(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	author := viewerWith()
	post := &domain.Post{ContentFields: domain.ContentFields{
		ID:       uuid.New(),
		AuthorID: author.UserID,
	}}
	postRepo.On("FindByID", post.ID).Return(post, nil)
	postRepo.On("SoftDelete", post).Return(nil)

	assert.NoError(t, svc.Delete(author, post.ID))
	postRepo.AssertCalled(t, "SoftDelete", post)
}

func TestPostGet_DraftHiddenFromStrangers(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	post := &domain.Post{ContentFields: domain.ContentFields{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Status:   domain.StatusDraft,
	}}
	postRepo.On("FindBySlug", "draft-post").Return(post, nil)

	_, err := svc.GetBySlug(nil, "draft-post")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.GetBySlug(viewerWith(), "draft-post")
	assert.ErrorIs(t, err, common.ErrForbidden)

	got, err := svc.GetBySlug(viewerWith(authz.PermPostPublish), "draft-post")
	assert.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestPostList_TruncatesExtraRowAndSetsEndCursor(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]*domain.Post, 3)
	for i := range rows {
		rows[i] = &domain.Post{ContentFields: domain.ContentFields{
			ID:        uuid.New(),
			Status:    domain.StatusPublished,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}}
	}
	postRepo.On("ListAfter", (*pagination.Cursor)(nil), 3, domain.StatusPublished).Return(rows, nil)

	conn, err := svc.List(nil, nil, 2, domain.StatusPublished)

	assert.NoError(t, err)
	assert.Len(t, conn.Edges, 2)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.Equal(t, conn.Edges[1].Cursor, *conn.PageInfo.EndCursor)

	// The cursor must round-trip to the row it addresses.
	cur, err := pagination.Decode(*conn.PageInfo.EndCursor)
	assert.NoError(t, err)
	assert.Equal(t, rows[1].ID.String(), cur.ID)
}

func TestPostList_LastPageHasNoNext(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := newPostServiceForTest(postRepo, new(MockRevisionRepository))

	rows := []*domain.Post{{ContentFields: domain.ContentFields{
		ID:        uuid.New(),
		Status:    domain.StatusPublished,
		CreatedAt: time.Now().UTC(),
	}}}
	postRepo.On("ListAfter", (*pagination.Cursor)(nil), 21, domain.StatusPublished).Return(rows, nil)

	conn, err := svc.List(nil, nil, 0, domain.StatusPublished)

	assert.NoError(t, err)
	assert.Len(t, conn.Edges, 1)
	assert.False(t, conn.PageInfo.HasNextPage)
}

// fakePostRepository serves ListAfter from an in-memory slice ordered
// (created_at DESC, id DESC), applying the same tuple comparison the SQL
// filter does. The embedded mock covers the methods the test never hits.
type fakePostRepository struct {
	MockPostRepository
	rows []*domain.Post
}

func (f *fakePostRepository) ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Post, error) {
	var boundary time.Time
	if after != nil {
		t, err := after.Time()
		if err != nil {
			return nil, err
		}
		boundary = t
	}
	var out []*domain.Post
	for _, row := range f.rows {
		if status != "" && row.Status != status {
			continue
		}
		if after != nil && !tupleBefore(row, boundary, after.ID) {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// tupleBefore reports (row.created_at, row.id) < (boundary, id). Canonical
// UUID strings compare in the same order as Postgres uuid values.
func tupleBefore(row *domain.Post, boundary time.Time, id string) bool {
	if row.CreatedAt.Before(boundary) {
		return true
	}
	return row.CreatedAt.Equal(boundary) && row.ID.String() < id
}

func TestPostList_WalkVisitsEveryRowExactlyOnce(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		base.Add(2 * time.Second),
		base.Add(time.Second),
		// Adjacent rows differing only in the microsecond digits; a cursor
		// layout coarser than the stored value would skip the second one.
		base.Add(123456 * time.Microsecond),
		base.Add(123400 * time.Microsecond),
		base,
		base,
		base.Add(-time.Second),
	}
	rows := make([]*domain.Post, len(stamps))
	for i, ts := range stamps {
		rows[i] = &domain.Post{ContentFields: domain.ContentFields{
			ID:        uuid.New(),
			Status:    domain.StatusPublished,
			CreatedAt: ts,
		}}
	}
	// Rows 4 and 5 share an instant; keep them id DESC like the query order.
	if rows[4].ID.String() < rows[5].ID.String() {
		rows[4], rows[5] = rows[5], rows[4]
	}

	svc := NewPostService(&fakePostRepository{rows: rows}, new(MockRevisionRepository), new(MockTaxonomyRepository), noopAudit{})

	var got []uuid.UUID
	var after *string
	for range rows {
		conn, err := svc.List(nil, after, 3, domain.StatusPublished)
		assert.NoError(t, err)
		for _, edge := range conn.Edges {
			got = append(got, edge.Node.ID)
		}
		if !conn.PageInfo.HasNextPage {
			break
		}
		after = conn.PageInfo.EndCursor
	}

	assert.Len(t, got, len(rows))
	for i, row := range rows {
		assert.Equal(t, row.ID, got[i], "row %d out of place", i)
	}
}

func TestPostList_MalformedCursorRejected(t *testing.T) {
	svc := newPostServiceForTest(new(MockPostRepository), new(MockRevisionRepository))

	bad := "not-base64!!"
	_, err := svc.List(nil, &bad, 10, domain.StatusPublished)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestPostList_DraftsRequireEditorialPermission(t *testing.T) {
	svc := newPostServiceForTest(new(MockPostRepository), new(MockRevisionRepository))

	_, err := svc.List(viewerWith(), nil, 10, domain.StatusDraft)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.List(nil, nil, 10, domain.StatusDraft)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestPostListRevisions_VersionsCountDownFromTotal(t *testing.T) {
	postRepo := new(MockPostRepository)
	revisionRepo := new(MockRevisionRepository)
	svc := newPostServiceForTest(postRepo, revisionRepo)

	post := &domain.Post{ContentFields: domain.ContentFields{ID: uuid.New()}}
	revisions := []*domain.Revision{
		{ID: uuid.New(), EntityType: domain.EntityPost, EntityID: post.ID},
		{ID: uuid.New(), EntityType: domain.EntityPost, EntityID: post.ID},
		{ID: uuid.New(), EntityType: domain.EntityPost, EntityID: post.ID},
	}
	postRepo.On("FindByID", post.ID).Return(post, nil)
	revisionRepo.On("ListByEntity", domain.EntityPost, post.ID).Return(revisions, nil)
	revisionRepo.On("CountByEntity", domain.EntityPost, post.ID).Return(int64(3), nil)

	out, err := svc.ListRevisions(post.ID)

	assert.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, int64(3), out[0].Version)
	assert.Equal(t, int64(2), out[1].Version)
	assert.Equal(t, int64(1), out[2].Version)
}
