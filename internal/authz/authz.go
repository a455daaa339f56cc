// Package authz decides whether a viewer may perform an action.
//
// A Viewer is rebuilt from persisted role/permission assignments on every
// request and never cached, so revoking a role takes effect on the next
// request.
package authz

import (
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

// Permission keys checked by the services
const (
	PermPostCreate      = "post:create"
	PermPostPublish     = "post:publish"
	PermPostArchive     = "post:archive"
	PermPageEdit        = "page:edit"
	PermPagePublish     = "page:publish"
	PermTemplateEdit    = "template:edit"
	PermTemplatePublish = "template:publish"
	PermMediaUpload     = "media:upload"
	PermCommerceManage  = "commerce:manage"
	PermNavManage       = "nav:manage"
	PermTaxonomyManage  = "taxonomy:manage"
)

// Viewer is the authenticated identity context for one request.
// Permissions is the union of the permissions of all assigned roles,
// flattened at build time; it is derived, never persisted.
type Viewer struct {
	UserID      uuid.UUID
	Roles       map[string]struct{}
	Permissions map[string]struct{}
}

// NewViewer flattens a user's roles into a Viewer. The user must have
// Roles (and their Permissions) preloaded.
func NewViewer(user *domain.User) *Viewer {
	v := &Viewer{
		UserID:      user.ID,
		Roles:       make(map[string]struct{}),
		Permissions: make(map[string]struct{}),
	}
	for _, role := range user.Roles {
		v.Roles[role.Key] = struct{}{}
		for _, perm := range role.Permissions {
			v.Permissions[perm.Key] = struct{}{}
		}
	}
	return v
}

// HasPermission reports whether the viewer holds the permission key
func (v *Viewer) HasPermission(key string) bool {
	if v == nil {
		return false
	}
	_, ok := v.Permissions[key]
	return ok
}

// RequireAuthenticated fails with ErrUnauthorized when no viewer is present
func RequireAuthenticated(v *Viewer) error {
	if v == nil {
		return common.ErrUnauthorized
	}
	return nil
}

// RequirePermission passes the viewer through when it holds the key.
// Absent viewer → ErrUnauthorized; missing key → ErrForbidden.
func RequirePermission(v *Viewer, key string) error {
	if err := RequireAuthenticated(v); err != nil {
		return err
	}
	if !v.HasPermission(key) {
		return common.ErrForbidden
	}
	return nil
}

// RequireOwnershipOrPermission allows the action when the viewer is the
// entity's author OR holds the permission key. This is an OR, not an AND:
// an author with zero permissions may still modify their own entity.
func RequireOwnershipOrPermission(v *Viewer, authorID uuid.UUID, key string) error {
	if err := RequireAuthenticated(v); err != nil {
		return err
	}
	if v.UserID == authorID {
		return nil
	}
	if !v.HasPermission(key) {
		return common.ErrForbidden
	}
	return nil
}
