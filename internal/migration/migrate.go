package migration

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/domain"
)

// Run executes AutoMigrate for all tables and seeds roles and
// permissions when they are missing. Safe to run on every boot.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.Permission{},
		&domain.UserRole{},
		&domain.RolePermission{},
		&domain.Post{},
		&domain.Page{},
		&domain.Template{},
		&domain.Revision{},
		&domain.Tag{},
		&domain.Category{},
		&domain.SEO{},
		&domain.Block{},
		&domain.NavMenu{},
		&domain.NavItem{},
		&domain.MediaAsset{},
		&domain.AssetLink{},
		&domain.Product{},
		&domain.License{},
		&domain.Purchase{},
		&domain.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	return seedAccessControl(db)
}

// rolePermissions maps role keys to the permission keys they grant.
// Contributors write drafts; editors run the editorial pipeline;
// admins additionally manage commerce.
var rolePermissions = map[string][]string{
	"admin": {
		authz.PermPostCreate, authz.PermPostPublish, authz.PermPostArchive,
		authz.PermPageEdit, authz.PermPagePublish,
		authz.PermTemplateEdit, authz.PermTemplatePublish,
		authz.PermMediaUpload, authz.PermCommerceManage,
		authz.PermNavManage, authz.PermTaxonomyManage,
	},
	"editor": {
		authz.PermPostCreate, authz.PermPostPublish, authz.PermPostArchive,
		authz.PermPageEdit, authz.PermPagePublish,
		authz.PermTemplateEdit, authz.PermTemplatePublish,
		authz.PermMediaUpload, authz.PermNavManage, authz.PermTaxonomyManage,
	},
	"contributor": {
		authz.PermPostCreate, authz.PermMediaUpload,
	},
}

var roleNames = map[string]string{
	"admin":       "Administrator",
	"editor":      "Editor",
	"contributor": "Contributor",
}

func seedAccessControl(db *gorm.DB) error {
	permissions := make(map[string]*domain.Permission)
	for _, keys := range rolePermissions {
		for _, key := range keys {
			if _, ok := permissions[key]; ok {
				continue
			}
			perm := &domain.Permission{ID: uuid.New(), Key: key, Name: key}
			if err := db.Where(domain.Permission{Key: key}).
				Attrs(domain.Permission{ID: perm.ID, Name: perm.Name}).
				FirstOrCreate(perm).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", key, err)
			}
			permissions[key] = perm
		}
	}

	for roleKey, permKeys := range rolePermissions {
		role := &domain.Role{ID: uuid.New(), Key: roleKey, Name: roleNames[roleKey]}
		if err := db.Where(domain.Role{Key: roleKey}).
			Attrs(domain.Role{ID: role.ID, Name: role.Name}).
			FirstOrCreate(role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleKey, err)
		}

		for _, permKey := range permKeys {
			perm := permissions[permKey]
			link := &domain.RolePermission{ID: uuid.New(), RoleID: role.ID, PermissionID: perm.ID}
			if err := db.Where(domain.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).
				Attrs(domain.RolePermission{ID: link.ID}).
				FirstOrCreate(link).Error; err != nil {
				return fmt.Errorf("seed role permission %s/%s: %w", roleKey, permKey, err)
			}
		}
	}

	return nil
}
