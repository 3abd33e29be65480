// Package permissions decides membership and admin status for an
// (actor, project) pair. Checks are gates, not primary operations: they never
// return an error, and any lookup failure resolves to a deny.
package permissions

import (
	"errors"
	"log"

	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

type MembershipStatus struct {
	IsMember bool `json:"is_member"`
	IsAdmin  bool `json:"is_admin"`
}

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// IsMember reports whether userID created the project or holds a membership
// row for it, regardless of role. A missing project resolves to false.
func (r *Resolver) IsMember(projectID, userID uint) bool {
	if projectID == 0 || userID == 0 {
		return false
	}

	if r.isCreator(projectID, userID) {
		return true
	}

	var count int64
	if err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		log.Printf("Membership lookup failed for project %d user %d: %v", projectID, userID, err)
		return false
	}

	return count > 0
}

// IsAdmin reports whether userID created the project or holds a membership
// row with the admin role. The project_admin role value does not qualify.
func (r *Resolver) IsAdmin(projectID, userID uint) bool {
	if projectID == 0 || userID == 0 {
		return false
	}

	if r.isCreator(projectID, userID) {
		return true
	}

	var count int64
	if err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND role = ?", projectID, userID, models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("Admin lookup failed for project %d user %d: %v", projectID, userID, err)
		return false
	}

	return count > 0
}

// Resolve re-reads both checks; callers must not cache the result across
// requests since membership can change between calls.
func (r *Resolver) Resolve(projectID, userID uint) MembershipStatus {
	return MembershipStatus{
		IsMember: r.IsMember(projectID, userID),
		IsAdmin:  r.IsAdmin(projectID, userID),
	}
}

func (r *Resolver) isCreator(projectID, userID uint) bool {
	var project models.Project

	if err := r.db.Select("id, created_by").First(&project, projectID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Project lookup failed for project %d: %v", projectID, err)
		}
		return false
	}

	return project.CreatedBy == userID
}
