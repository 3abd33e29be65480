package models

import "gorm.io/gorm"

const (
	GlobalRoleUser  = "user"
	GlobalRoleAdmin = "global_admin"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:user"`

	// Relationships
	CreatedProjects []Project       `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Memberships     []ProjectMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
