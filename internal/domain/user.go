package domain

import (
	"time"

	"github.com/google/uuid"
)

// User account row. Password hash is never serialized.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"column:email;uniqueIndex" json:"email"`
	Username     *string    `gorm:"column:username;uniqueIndex" json:"username,omitempty"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	DisplayName  *string    `gorm:"column:display_name" json:"display_name,omitempty"`
	AvatarURL    *string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	IsActive     bool       `gorm:"column:is_active;default:true" json:"is_active"`
	IsVerified   bool       `gorm:"column:is_verified;default:false" json:"is_verified"`
	IsDeleted    bool       `gorm:"column:is_deleted;default:false" json:"-"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Roles []*Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

func (User) TableName() string { return "users" }

// Role a named bundle of permissions
type Role struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"column:key;uniqueIndex" json:"key"`
	Name        string    `gorm:"column:name" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Permissions []*Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

func (Role) TableName() string { return "roles" }

// Permission a single grantable capability, e.g. "post:publish"
type Permission struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"column:key;uniqueIndex" json:"key"`
	Name        string    `gorm:"column:name" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Permission) TableName() string { return "permissions" }

// UserRole join row, user → role (many-to-many)
type UserRole struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;uniqueIndex:user_roles_unique" json:"user_id"`
	RoleID    uuid.UUID `gorm:"column:role_id;uniqueIndex:user_roles_unique" json:"role_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserRole) TableName() string { return "user_roles" }

// RolePermission join row, role → permission (many-to-many)
type RolePermission struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RoleID       uuid.UUID `gorm:"column:role_id;uniqueIndex:role_permissions_unique" json:"role_id"`
	PermissionID uuid.UUID `gorm:"column:permission_id;uniqueIndex:role_permissions_unique" json:"permission_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// SignupRequest registration payload
type SignupRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	DisplayName *string `json:"display_name"`
}

// LoginRequest credential payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest token exchange payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse issued token pair plus the account
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// UserResponse public view of a user
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    *string   `json:"username,omitempty"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts a User to its public view
func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
	for _, r := range u.Roles {
		resp.Roles = append(resp.Roles, r.Key)
	}
	return resp
}
