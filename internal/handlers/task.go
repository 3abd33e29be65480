package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/query"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"gorm.io/datatypes"
)

type CreateTaskRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	AssignedTo  *uint          `json:"assigned_to"`
	DueDate     *time.Time     `json:"due_date"`
	Labels      datatypes.JSON `json:"labels"`
}

type UpdateTaskRequest struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	Status        *string        `json:"status"`
	Priority      *string        `json:"priority"`
	AssignedTo    *uint          `json:"assigned_to"`
	ClearAssignee bool           `json:"clear_assignee"`
	DueDate       *time.Time     `json:"due_date"`
	Labels        datatypes.JSON `json:"labels"`
}

type TaskResponse struct {
	ID           uint           `json:"id"`
	ProjectID    uint           `json:"project_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       string         `json:"status"`
	Priority     string         `json:"priority"`
	AssignedBy   uint           `json:"assigned_by"`
	CreatorName  string         `json:"creator_name,omitempty"`
	AssignedTo   *uint          `json:"assigned_to"`
	AssigneeName string         `json:"assignee_name,omitempty"`
	DueDate      *time.Time     `json:"due_date"`
	Labels       datatypes.JSON `json:"labels,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type TaskListResponse struct {
	Items      []TaskResponse   `json:"items"`
	Pagination query.Pagination `json:"pagination"`
}

func newTaskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		AssignedBy:  task.AssignedBy,
		CreatorName: task.Creator.Name,
		AssignedTo:  task.AssignedTo,
		DueDate:     task.DueDate,
		Labels:      task.Labels,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Assignee != nil {
		response.AssigneeName = task.Assignee.Name
	}

	return response
}

func CreateTask(ctx *gin.Context) {
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

	var body CreateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.NewTaskService(db.DB).Create(projectID, userID, services.TaskCreate{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		AssignedTo:  body.AssignedTo,
		DueDate:     body.DueDate,
		Labels:      body.Labels,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	notifyTaskAssigned(*task)
	BroadcastRefresh(projectKey(projectID))

	ctx.JSON(http.StatusCreated, newTaskResponse(*task))
}

func ListTasks(ctx *gin.Context) {
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

	opts := query.ParseTaskListOptions(ctx.Request.URL.Query())

	list, err := services.NewTaskService(db.DB).List(projectID, userID, opts)

	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]TaskResponse, 0, len(list.Items))

	for _, task := range list.Items {
		items = append(items, newTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, TaskListResponse{Items: items, Pagination: list.Pagination})
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, taskID, err := projectTaskIDs(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.NewTaskService(db.DB).Get(projectID, taskID, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newTaskResponse(*task))
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, taskID, err := projectTaskIDs(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.NewTaskService(db.DB).Update(projectID, taskID, userID, services.TaskUpdate{
		Title:         body.Title,
		Description:   body.Description,
		Status:        body.Status,
		Priority:      body.Priority,
		AssignedTo:    body.AssignedTo,
		ClearAssignee: body.ClearAssignee,
		DueDate:       body.DueDate,
		Labels:        body.Labels,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if body.AssignedTo != nil {
		notifyTaskAssigned(*task)
	}

	BroadcastRefresh(projectKey(projectID))

	ctx.JSON(http.StatusOK, newTaskResponse(*task))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, taskID, err := projectTaskIDs(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewTaskService(db.DB).Delete(projectID, taskID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(projectKey(projectID))

	ctx.Status(http.StatusNoContent)
}

func projectTaskIDs(ctx *gin.Context) (uint, uint, error) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		return 0, 0, err
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		return 0, 0, err
	}

	return projectID, taskID, nil
}

// notifyTaskAssigned fires the project webhooks for assigned tasks; delivery
// failures are logged, never surfaced.
func notifyTaskAssigned(task models.Task) {
	if task.AssignedTo == nil {
		return
	}

	var project models.Project

	if err := db.DB.First(&project, task.ProjectID).Error; err != nil {
		log.Printf("Failed to load project %d for task notification: %v", task.ProjectID, err)
		return
	}

	go func() {
		if err := services.SendTaskAssignedNotification(project, task); err != nil {
			log.Printf("Failed to send task-assigned notification for project %d: %v", project.ID, err)
		}
	}()
}
