package services

import (
	"errors"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/domain"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/permissions"
	"github.com/taskhub-dev/taskhub/internal/query"
	"gorm.io/gorm"
)

type NoteService struct {
	db       *gorm.DB
	resolver *permissions.Resolver
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db, resolver: permissions.NewResolver(db)}
}

type NoteList struct {
	Items      []models.Note    `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

func (s *NoteService) Create(projectID, actorID uint, content string) (*models.Note, error) {
	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	if strings.TrimSpace(content) == "" {
		return nil, domain.Validation("note content is required")
	}

	note := models.Note{
		ProjectID: projectID,
		CreatedBy: actorID,
		Content:   content,
	}

	if err := s.db.Create(&note).Error; err != nil {
		return nil, domain.Storage("failed to create note", err)
	}

	if err := s.db.Preload("Author").First(&note, note.ID).Error; err != nil {
		return nil, domain.Storage("failed to retrieve note", err)
	}

	return &note, nil
}

// Update is allowed for the note author or a project admin.
func (s *NoteService) Update(projectID, noteID, actorID uint, content string) (*models.Note, error) {
	note, err := s.fetch(projectID, noteID)
	if err != nil {
		return nil, err
	}

	if note.CreatedBy != actorID && !s.resolver.IsAdmin(projectID, actorID) {
		return nil, domain.Forbidden("only the note author or a project admin can update a note")
	}

	if strings.TrimSpace(content) == "" {
		return nil, domain.Validation("note content is required")
	}

	note.Content = content

	if err := s.db.Save(note).Error; err != nil {
		return nil, domain.Storage("failed to update note", err)
	}

	return note, nil
}

func (s *NoteService) Delete(projectID, noteID, actorID uint) error {
	note, err := s.fetch(projectID, noteID)
	if err != nil {
		return err
	}

	if note.CreatedBy != actorID && !s.resolver.IsAdmin(projectID, actorID) {
		return domain.Forbidden("only the note author or a project admin can delete a note")
	}

	if err := s.db.Delete(note).Error; err != nil {
		return domain.Storage("failed to delete note", err)
	}

	return nil
}

func (s *NoteService) List(projectID, actorID uint, opts query.NoteListOptions) (*NoteList, error) {
	if !s.resolver.IsMember(projectID, actorID) {
		return nil, domain.Forbidden("not a member of this project")
	}

	base := opts.Filter(s.db.Model(&models.Note{}).Where("project_id = ?", projectID))

	var total int64

	if err := base.Count(&total).Error; err != nil {
		return nil, domain.Storage("failed to count notes", err)
	}

	items := make([]models.Note, 0, opts.Limit)

	if err := opts.Filter(s.db.Where("project_id = ?", projectID)).
		Preload("Author").
		Order(opts.Sort()).
		Offset(opts.Offset()).
		Limit(opts.Limit).
		Find(&items).Error; err != nil {
		return nil, domain.Storage("failed to retrieve notes", err)
	}

	return &NoteList{
		Items:      items,
		Pagination: query.Paginate(total, opts.Page, opts.Limit),
	}, nil
}

func (s *NoteService) fetch(projectID, noteID uint) (*models.Note, error) {
	var note models.Note

	err := s.db.Preload("Author").
		Where("id = ? AND project_id = ?", noteID, projectID).
		First(&note).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("note not found")
		}
		return nil, domain.Storage("failed to retrieve note", err)
	}

	return &note, nil
}
