package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	CreatedBy   uint `gorm:"not null;index"` // immutable owner, implicitly an admin

	DiscordWebhook string
	SlackWebhook   string

	// Relationships
	Creator User            `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notes   []Note          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
