package models

import "gorm.io/gorm"

const (
	RoleAdmin        = "admin"
	RoleProjectAdmin = "project_admin"
	RoleMember       = "member"
)

// KnownRole reports whether role is one of the membership role values.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProjectAdmin, RoleMember:
		return true
	}
	return false
}

type ProjectMember struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	Role      string `gorm:"not null;default:member"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
