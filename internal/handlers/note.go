package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/query"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

type CreateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

type NoteResponse struct {
	ID         uint      `json:"id"`
	ProjectID  uint      `json:"project_id"`
	CreatedBy  uint      `json:"created_by"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type NoteListResponse struct {
	Items      []NoteResponse   `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

func newNoteResponse(note models.Note) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		ProjectID:  note.ProjectID,
		CreatedBy:  note.CreatedBy,
		AuthorName: note.Author.Name,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

func CreateNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body CreateNoteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note, err := services.NewNoteService(db.DB).Create(projectID, userID, body.Content)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newNoteResponse(*note))
}

func ListNotes(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := query.ParseNoteListOptions(ctx.Request.URL.Query())

	list, err := services.NewNoteService(db.DB).List(projectID, userID, opts)

	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]NoteResponse, 0, len(list.Items))

	for _, note := range list.Items {
		items = append(items, newNoteResponse(note))
	}

	ctx.JSON(http.StatusOK, NoteListResponse{Items: items, Pagination: list.Pagination})
}

func UpdateNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, noteID, err := projectNoteIDs(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateNoteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note, err := services.NewNoteService(db.DB).Update(projectID, noteID, userID, body.Content)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newNoteResponse(*note))
}

func DeleteNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, noteID, err := projectNoteIDs(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewNoteService(db.DB).Delete(projectID, noteID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func projectNoteIDs(ctx *gin.Context) (uint, uint, error) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		return 0, 0, err
	}

	noteID, err := utils.GetNoteID(ctx)

	if err != nil {
		return 0, 0, err
	}

	return projectID, noteID, nil
}
