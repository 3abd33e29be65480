package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type MemberResponse struct {
	ID        uint   `json:"id"`
	ProjectID uint   `json:"project_id"`
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func newMemberResponse(membership models.ProjectMember) MemberResponse {
	return MemberResponse{
		ID:        membership.ID,
		ProjectID: membership.ProjectID,
		UserID:    membership.UserID,
		Name:      membership.User.Name,
		Email:     membership.User.Email,
		Role:      membership.Role,
	}
}

func AddMember(ctx *gin.Context) {
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

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	membership, err := services.NewMemberService(db.DB).Add(projectID, userID, body.Email, body.Role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(projectKey(projectID))

	ctx.JSON(http.StatusCreated, newMemberResponse(*membership))
}

func ListMembers(ctx *gin.Context) {
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

	memberships, err := services.NewMemberService(db.DB).List(projectID, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]MemberResponse, 0, len(memberships))

	for _, membership := range memberships {
		response = append(response, newMemberResponse(membership))
	}

	ctx.JSON(http.StatusOK, response)
}

func RemoveMember(ctx *gin.Context) {
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

	memberID, err := utils.GetMemberID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewMemberService(db.DB).Remove(projectID, userID, memberID); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(projectKey(projectID))

	ctx.Status(http.StatusNoContent)
}

func UpdateMemberRole(ctx *gin.Context) {
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

	memberID, err := utils.GetMemberID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateMemberRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	membership, err := services.NewMemberService(db.DB).UpdateRole(projectID, userID, memberID, body.Role)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastRefresh(projectKey(projectID))

	ctx.JSON(http.StatusOK, newMemberResponse(*membership))
}
