package models

import "gorm.io/gorm"

type Note struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;index"`
	CreatedBy uint   `gorm:"not null;index"`
	Content   string `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author  User    `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
