package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/internal/domain"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/permissions"
	"github.com/taskhub-dev/taskhub/internal/query"
)

// Walks a project through its whole life: creation, joining, a blocked
// delete, and the final cascade.
func TestProjectLifecycle(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectService(db)
	members := NewMemberService(db)
	tasks := NewTaskService(db)
	resolver := permissions.NewResolver(db)

	u1 := createTestUser(t, db, "Alice", "alice@example.com")
	u2 := createTestUser(t, db, "Bob", "bob@example.com")

	project, err := projects.Create(u1.ID, "Alpha", "")
	require.NoError(t, err)

	assert.True(t, resolver.IsMember(project.ID, u1.ID))
	assert.True(t, resolver.IsAdmin(project.ID, u1.ID))

	_, err = members.Add(project.ID, u1.ID, u2.Email, models.RoleMember)
	require.NoError(t, err)

	assert.True(t, resolver.IsMember(project.ID, u2.ID))
	assert.False(t, resolver.IsAdmin(project.ID, u2.ID))

	task, err := tasks.Create(project.ID, u2.ID, TaskCreate{Title: "ship it", AssignedTo: &u2.ID})
	require.NoError(t, err)
	require.NotNil(t, task.Assignee)
	assert.Equal(t, "Bob", task.Assignee.Name)

	err = projects.Delete(u2.ID, project.ID)
	assert.True(t, domain.IsForbidden(err))

	require.NoError(t, projects.Delete(u1.ID, project.ID))

	// The project is gone, and so is everything under it.
	assert.False(t, resolver.IsMember(project.ID, u1.ID))

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = tasks.List(project.ID, u1.ID, query.ParseTaskListOptions(url.Values{}))
	assert.True(t, domain.IsForbidden(err))
}
