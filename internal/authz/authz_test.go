package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

func viewerWith(perms ...string) *Viewer {
	v := &Viewer{
		UserID:      uuid.New(),
		Roles:       map[string]struct{}{},
		Permissions: map[string]struct{}{},
	}
	for _, p := range perms {
		v.Permissions[p] = struct{}{}
	}
	return v
}

func TestNewViewer_FlattensRolePermissions(t *testing.T) {
	user := &domain.User{
		ID: uuid.New(),
		Roles: []*domain.Role{
			{
				Key: "editor",
				Permissions: []*domain.Permission{
					{Key: PermPostCreate},
					{Key: PermPostPublish},
				},
			},
			{
				Key: "librarian",
				Permissions: []*domain.Permission{
					{Key: PermPostPublish}, // overlaps with editor
					{Key: PermMediaUpload},
				},
			},
		},
	}

	v := NewViewer(user)

	assert.Equal(t, user.ID, v.UserID)
	assert.Len(t, v.Roles, 2)
	// Union of both roles, duplicates collapse
	assert.Len(t, v.Permissions, 3)
	assert.True(t, v.HasPermission(PermPostCreate))
	assert.True(t, v.HasPermission(PermPostPublish))
	assert.True(t, v.HasPermission(PermMediaUpload))
	assert.False(t, v.HasPermission(PermCommerceManage))
}

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(nil), common.ErrUnauthorized)
	assert.NoError(t, RequireAuthenticated(viewerWith()))
}

func TestRequirePermission(t *testing.T) {
	assert.ErrorIs(t, RequirePermission(nil, PermPostCreate), common.ErrUnauthorized)
	assert.ErrorIs(t, RequirePermission(viewerWith(), PermPostCreate), common.ErrForbidden)
	assert.NoError(t, RequirePermission(viewerWith(PermPostCreate), PermPostCreate))
}

func TestRequireOwnershipOrPermission(t *testing.T) {
	authorID := uuid.New()

	t.Run("author with zero permissions may modify", func(t *testing.T) {
		v := viewerWith()
		v.UserID = authorID
		assert.NoError(t, RequireOwnershipOrPermission(v, authorID, PermPostCreate))
	})

	t.Run("non-author with the permission may modify", func(t *testing.T) {
		v := viewerWith(PermPostCreate)
		assert.NoError(t, RequireOwnershipOrPermission(v, authorID, PermPostCreate))
	})

	t.Run("non-author without the permission is rejected", func(t *testing.T) {
		v := viewerWith(PermMediaUpload)
		assert.ErrorIs(t, RequireOwnershipOrPermission(v, authorID, PermPostCreate), common.ErrForbidden)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		assert.ErrorIs(t, RequireOwnershipOrPermission(nil, authorID, PermPostCreate), common.ErrUnauthorized)
	})
}

func TestHasPermission_NilViewer(t *testing.T) {
	var v *Viewer
	assert.False(t, v.HasPermission(PermPostCreate))
}
