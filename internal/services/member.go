package services

import (
	"errors"
	"log"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/domain"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/permissions"
	"gorm.io/gorm"
)

// MemberService owns the membership lifecycle. The creator-removal guard
// lives here and nowhere else: creator access is derived from
// Project.CreatedBy, so that membership row may change role but never go
// away while the project exists.
type MemberService struct {
	db       *gorm.DB
	resolver *permissions.Resolver
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db, resolver: permissions.NewResolver(db)}
}

func (s *MemberService) Add(projectID, actorID uint, targetEmail, role string) (*models.ProjectMember, error) {
	project, err := s.project(projectID)
	if err != nil {
		return nil, err
	}

	if !s.resolver.IsAdmin(projectID, actorID) {
		return nil, domain.Forbidden("project admin access required")
	}

	targetEmail = strings.ToLower(strings.TrimSpace(targetEmail))

	var target models.User

	if err := s.db.Where("email = ?", targetEmail).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("no user with email %q", targetEmail)
		}
		return nil, domain.Storage("failed to look up user", err)
	}

	if !models.KnownRole(role) {
		role = models.RoleMember
	}

	var existing models.ProjectMember

	err = s.db.Where("project_id = ? AND user_id = ?", projectID, target.ID).First(&existing).Error

	if err == nil {
		return nil, domain.Conflict("user is already a member of this project")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Storage("failed to check membership", err)
	}

	membership := models.ProjectMember{
		ProjectID: projectID,
		UserID:    target.ID,
		Role:      role,
	}

	if err := s.db.Create(&membership).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("user is already a member of this project")
		}
		return nil, domain.Storage("failed to add member", err)
	}

	if err := s.db.Preload("User").First(&membership, membership.ID).Error; err != nil {
		return nil, domain.Storage("failed to retrieve membership", err)
	}

	go func() {
		if err := SendMemberAddedNotification(*project, membership); err != nil {
			log.Printf("Failed to send member-added notification for project %d: %v", projectID, err)
		}
	}()

	return &membership, nil
}

// Remove deletes a membership row. A member may remove themselves; an admin
// may remove anyone else. The creator's membership is never removable,
// whoever asks.
func (s *MemberService) Remove(projectID, actorID, memberID uint) error {
	project, err := s.project(projectID)
	if err != nil {
		return err
	}

	membership, err := s.membership(projectID, memberID)
	if err != nil {
		return err
	}

	if membership.UserID == project.CreatedBy {
		return domain.Conflict("the project creator's membership cannot be removed")
	}

	if membership.UserID != actorID && !s.resolver.IsAdmin(projectID, actorID) {
		return domain.Forbidden("project admin access required to remove other members")
	}

	if err := s.db.Delete(membership).Error; err != nil {
		return domain.Storage("failed to remove member", err)
	}

	return nil
}

// UpdateRole changes a membership's role. Demoting the last admin is
// allowed: the creator keeps derived admin access regardless of rows.
func (s *MemberService) UpdateRole(projectID, actorID, memberID uint, role string) (*models.ProjectMember, error) {
	if _, err := s.project(projectID); err != nil {
		return nil, err
	}

	if !s.resolver.IsAdmin(projectID, actorID) {
		return nil, domain.Forbidden("project admin access required")
	}

	if !models.KnownRole(role) {
		return nil, domain.Validation("unknown role %q", role)
	}

	membership, err := s.membership(projectID, memberID)
	if err != nil {
		return nil, err
	}

	membership.Role = role

	if err := s.db.Save(membership).Error; err != nil {
		return nil, domain.Storage("failed to update member role", err)
	}

	if err := s.db.Preload("User").First(membership, membership.ID).Error; err != nil {
		return nil, domain.Storage("failed to retrieve membership", err)
	}

	return membership, nil
}

func (s *MemberService) List(projectID, actorID uint) ([]models.ProjectMember, error) {
	if _, err := s.project(projectID); err != nil {
		return nil, err
	}

	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	var memberships []models.ProjectMember

	if err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, domain.Storage("failed to retrieve members", err)
	}

	return memberships, nil
}

func (s *MemberService) project(projectID uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("project not found")
		}
		return nil, domain.Storage("failed to retrieve project", err)
	}

	return &project, nil
}

func (s *MemberService) membership(projectID, memberID uint) (*models.ProjectMember, error) {
	var membership models.ProjectMember

	err := s.db.Where("id = ? AND project_id = ?", memberID, projectID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("member not found")
		}
		return nil, domain.Storage("failed to retrieve membership", err)
	}

	return &membership, nil
}
