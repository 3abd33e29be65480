package services

import (
	"errors"
	"strings"
	"time"

	"github.com/taskhub-dev/taskhub/internal/domain"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/permissions"
	"github.com/taskhub-dev/taskhub/internal/query"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskService struct {
	db       *gorm.DB
	resolver *permissions.Resolver
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, resolver: permissions.NewResolver(db)}
}

type TaskCreate struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  *uint
	DueDate     *time.Time
	Labels      datatypes.JSON
}

// TaskUpdate carries partial updates; nil fields are left untouched.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	AssignedTo    *uint
	ClearAssignee bool
	DueDate       *time.Time
	Labels        datatypes.JSON
}

type TaskList struct {
	Items      []models.Task    `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

func (s *TaskService) Create(projectID, actorID uint, in TaskCreate) (*models.Task, error) {
	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	title := strings.TrimSpace(in.Title)

	if title == "" {
		return nil, domain.Validation("task title is required")
	}

	status := in.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.KnownTaskStatus(status) {
		return nil, domain.Validation("unknown task status %q", status)
	}

	priority := in.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.KnownTaskPriority(priority) {
		return nil, domain.Validation("unknown task priority %q", priority)
	}

	// The assignee must be a member before any row is written.
	if in.AssignedTo != nil && !s.resolver.IsMember(projectID, *in.AssignedTo) {
		return nil, domain.Validation("assignee is not a member of this project")
	}

	var task models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		task = models.Task{
			ProjectID:   projectID,
			Title:       title,
			Description: in.Description,
			Status:      status,
			Priority:    priority,
			AssignedBy:  actorID,
			AssignedTo:  in.AssignedTo,
			DueDate:     in.DueDate,
			Labels:      in.Labels,
		}

		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		return tx.Preload("Creator").Preload("Assignee").First(&task, task.ID).Error
	})

	if err != nil {
		return nil, domain.Storage("failed to create task", err)
	}

	return &task, nil
}

func (s *TaskService) Get(projectID, taskID, actorID uint) (*models.Task, error) {
	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	return s.fetch(projectID, taskID)
}

func (s *TaskService) Update(projectID, taskID, actorID uint, in TaskUpdate) (*models.Task, error) {
	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	task, err := s.fetch(projectID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.Validation("task title is required")
		}
		task.Title = title
	}

	if in.Description != nil {
		task.Description = *in.Description
	}

	if in.Status != nil {
		if !models.KnownTaskStatus(*in.Status) {
			return nil, domain.Validation("unknown task status %q", *in.Status)
		}
		task.Status = *in.Status
	}

	if in.Priority != nil {
		if !models.KnownTaskPriority(*in.Priority) {
			return nil, domain.Validation("unknown task priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
	}

	if in.ClearAssignee {
		task.AssignedTo = nil
	} else if in.AssignedTo != nil {
		if !s.resolver.IsMember(projectID, *in.AssignedTo) {
			return nil, domain.Validation("assignee is not a member of this project")
		}
		task.AssignedTo = in.AssignedTo
	}

	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	if in.Labels != nil {
		task.Labels = in.Labels
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, domain.Storage("failed to update task", err)
	}

	if err := s.db.Preload("Creator").Preload("Assignee").First(task, task.ID).Error; err != nil {
		return nil, domain.Storage("failed to retrieve task", err)
	}

	return task, nil
}

// Delete is allowed for the task creator or a project admin.
func (s *TaskService) Delete(projectID, taskID, actorID uint) error {
	task, err := s.fetch(projectID, taskID)
	if err != nil {
		return err
	}

	if task.AssignedBy != actorID && !s.resolver.IsAdmin(projectID, actorID) {
		return domain.Forbidden("only the task creator or a project admin can delete a task")
	}

	if err := s.db.Delete(task).Error; err != nil {
		return domain.Storage("failed to delete task", err)
	}

	return nil
}

// List pages the project's tasks through the filter options. The count query
// reuses the same filter as the page query.
func (s *TaskService) List(projectID, actorID uint, opts query.TaskListOptions) (*TaskList, error) {
	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	base := opts.Filter(s.db.Model(&models.Task{}).Where("project_id = ?", projectID))

	var total int64

	if err := base.Count(&total).Error; err != nil {
		return nil, domain.Storage("failed to count tasks", err)
	}

	items := make([]models.Task, 0, opts.Limit)

	if err := opts.Filter(s.db.Where("project_id = ?", projectID)).
		Preload("Creator").
		Preload("Assignee").
		Order(opts.Sort()).
		Offset(opts.Offset()).
		Limit(opts.Limit).
		Find(&items).Error; err != nil {
		return nil, domain.Storage("failed to retrieve tasks", err)
	}

	return &TaskList{
		Items:      items,
		Pagination: query.Paginate(total, opts.Page, opts.Limit),
	}, nil
}

func (s *TaskService) fetch(projectID, taskID uint) (*models.Task, error) {
	var task models.Task

	err := s.db.Preload("Creator").Preload("Assignee").
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("task not found")
		}
		return nil, domain.Storage("failed to retrieve task", err)
	}

	return &task, nil
}
