package services

import (
	"errors"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/domain"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/permissions"
	"gorm.io/gorm"
)

type ProjectService struct {
	db       *gorm.DB
	resolver *permissions.Resolver
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db, resolver: permissions.NewResolver(db)}
}

type ProjectUpdate struct {
	Name           string
	Description    string
	DiscordWebhook *string
	SlackWebhook   *string
}

// Create persists the project and the creator's admin membership in one
// transaction. A project is never visible without that membership row.
func (s *ProjectService) Create(actorID uint, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, domain.Validation("project name is required")
	}

	var existing models.Project

	err := s.db.Where("name = ?", name).First(&existing).Error

	if err == nil {
		return nil, domain.Conflict("project name %q is already taken", name)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Storage("failed to check project name", err)
	}

	var project models.Project

	err = s.db.Transaction(func(tx *gorm.DB) error {
		project = models.Project{
			Name:        name,
			Description: description,
			CreatedBy:   actorID,
		}

		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		membership := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    actorID,
			Role:      models.RoleAdmin,
		}

		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		// Re-read inside the transaction so the response never reflects
		// pre-commit state.
		return tx.Preload("Creator").First(&project, project.ID).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("project name %q is already taken", name)
		}
		return nil, domain.Storage("failed to create project", err)
	}

	return &project, nil
}

func (s *ProjectService) Get(actorID, projectID uint) (*models.Project, error) {
	var project models.Project

	if err := s.db.Preload("Creator").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("project not found")
		}
		return nil, domain.Storage("failed to retrieve project", err)
	}

	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	return &project, nil
}

// ListForUser returns projects the user created or joined.
func (s *ProjectService) ListForUser(userID uint) ([]models.Project, error) {
	memberOf := s.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	var projects []models.Project

	if err := s.db.Preload("Creator").
		Where("created_by = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, domain.Storage("failed to retrieve projects", err)
	}

	return projects, nil
}

func (s *ProjectService) Update(actorID, projectID uint, in ProjectUpdate) (*models.Project, error) {
	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("project not found")
		}
		return nil, domain.Storage("failed to retrieve project", err)
	}

	if !s.resolver.IsAdmin(projectID, actorID) {
		return nil, domain.Forbidden("project admin access required")
	}

	name := strings.TrimSpace(in.Name)

	if name == "" {
		return nil, domain.Validation("project name is required")
	}

	if name != project.Name {
		var existing models.Project

		err := s.db.Where("name = ? AND id != ?", name, projectID).First(&existing).Error

		if err == nil {
			return nil, domain.Conflict("project name %q is already taken", name)
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Storage("failed to check project name", err)
		}
	}

	project.Name = name
	project.Description = in.Description

	if in.DiscordWebhook != nil {
		project.DiscordWebhook = *in.DiscordWebhook
	}

	if in.SlackWebhook != nil {
		project.SlackWebhook = *in.SlackWebhook
	}

	if err := s.db.Save(&project).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("project name %q is already taken", name)
		}
		return nil, domain.Storage("failed to update project", err)
	}

	return &project, nil
}

// Delete removes the project and every membership, task and note under it in
// one transaction; a failed step leaves the project fully intact.
func (s *ProjectService) Delete(actorID, projectID uint) error {
	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("project not found")
		}
		return domain.Storage("failed to retrieve project", err)
	}

	if !s.resolver.IsAdmin(projectID, actorID) {
		return domain.Forbidden("project admin access required")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.Note{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		return domain.Storage("failed to delete project", err)
	}

	return nil
}
