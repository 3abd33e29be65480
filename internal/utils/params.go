package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetProjectID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "project_id", "Project")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "task_id", "Task")
}

func GetNoteID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "note_id", "Note")
}

func GetMemberID(ctx *gin.Context) (uint, error) {
	return pathID(ctx, "member_id", "Member")
}

func pathID(ctx *gin.Context, param, label string) (uint, error) {
	raw := ctx.Param(param)

	if raw == "" {
		return 0, errors.New(label + " ID not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return uint(id), nil
}
