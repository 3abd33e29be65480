package services

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/internal/domain"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/query"
)

func TestTaskCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	creator, project := seedProject(t, db)

	task, err := svc.Create(project.ID, creator.ID, TaskCreate{Title: "ship it"})
	require.NoError(t, err)
	assert.Equal(t, creator.ID, task.AssignedBy)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, "Alice", task.Creator.Name)
}

func TestTaskCreateRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	_, project := seedProject(t, db)
	outsider := createTestUser(t, db, "Eve", "eve@example.com")

	_, err := svc.Create(project.ID, outsider.ID, TaskCreate{Title: "sneak in"})
	assert.True(t, domain.IsForbidden(err))
}

func TestTaskCreateNonMemberAssignee(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	creator, project := seedProject(t, db)
	outsider := createTestUser(t, db, "Eve", "eve@example.com")

	_, err := svc.Create(project.ID, creator.ID, TaskCreate{
		Title:      "ship it",
		AssignedTo: &outsider.ID,
	})
	assert.True(t, domain.IsValidation(err))

	// Nothing was written.
	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTaskCreateUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	creator, project := seedProject(t, db)

	_, err := svc.Create(project.ID, creator.ID, TaskCreate{Title: "x", Status: "archived"})
	assert.True(t, domain.IsValidation(err))
}

func TestTaskDeletePermissions(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	members := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	carol := createTestUser(t, db, "Carol", "carol@example.com")

	_, err := members.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	_, err = members.Add(project.ID, creator.ID, carol.Email, models.RoleMember)
	require.NoError(t, err)

	task, err := tasks.Create(project.ID, bob.ID, TaskCreate{Title: "bob's task"})
	require.NoError(t, err)

	// A plain member who is not the creator cannot delete.
	err = tasks.Delete(project.ID, task.ID, carol.ID)
	assert.True(t, domain.IsForbidden(err))

	// The task creator can.
	require.NoError(t, tasks.Delete(project.ID, task.ID, bob.ID))

	// A project admin can delete someone else's task.
	task, err = tasks.Create(project.ID, bob.ID, TaskCreate{Title: "another"})
	require.NoError(t, err)
	require.NoError(t, tasks.Delete(project.ID, task.ID, creator.ID))
}

func TestTaskUpdateAssigneeMustBeMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	creator, project := seedProject(t, db)
	outsider := createTestUser(t, db, "Eve", "eve@example.com")

	task, err := svc.Create(project.ID, creator.ID, TaskCreate{Title: "ship it"})
	require.NoError(t, err)

	_, err = svc.Update(project.ID, task.ID, creator.ID, TaskUpdate{AssignedTo: &outsider.ID})
	assert.True(t, domain.IsValidation(err))
}

func TestTaskListPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	creator, project := seedProject(t, db)

	for i := 0; i < 7; i++ {
		_, err := svc.Create(project.ID, creator.ID, TaskCreate{Title: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
	}

	opts := query.ParseTaskListOptions(url.Values{"limit": {"3"}})

	list, err := svc.List(project.ID, creator.ID, opts)
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.EqualValues(t, 7, list.Pagination.Total)
	assert.Equal(t, 3, list.Pagination.Pages)

	// A page past the end is empty but keeps the filtered total.
	opts = query.ParseTaskListOptions(url.Values{"limit": {"3"}, "page": {"5"}})

	list, err = svc.List(project.ID, creator.ID, opts)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.EqualValues(t, 7, list.Pagination.Total)
}

func TestTaskListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	creator, project := seedProject(t, db)

	_, err := svc.Create(project.ID, creator.ID, TaskCreate{Title: "Fix login bug", Priority: models.TaskPriorityHigh})
	require.NoError(t, err)

	_, err = svc.Create(project.ID, creator.ID, TaskCreate{Title: "Write docs", Priority: models.TaskPriorityLow})
	require.NoError(t, err)

	opts := query.ParseTaskListOptions(url.Values{"search": {"LOGIN"}})

	list, err := svc.List(project.ID, creator.ID, opts)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Fix login bug", list.Items[0].Title)
	assert.EqualValues(t, 1, list.Pagination.Total)

	opts = query.ParseTaskListOptions(url.Values{"priority": {models.TaskPriorityLow}})

	list, err = svc.List(project.ID, creator.ID, opts)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Write docs", list.Items[0].Title)
}

func TestTaskListRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	_, project := seedProject(t, db)
	outsider := createTestUser(t, db, "Eve", "eve@example.com")

	_, err := svc.List(project.ID, outsider.ID, query.ParseTaskListOptions(url.Values{}))
	assert.True(t, domain.IsForbidden(err))
}
