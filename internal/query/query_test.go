package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskhub-dev/taskhub/internal/models"
)

func TestParseTaskListOptionsDefaults(t *testing.T) {
	opts := ParseTaskListOptions(url.Values{})

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, DefaultLimit, opts.Limit)
	assert.Equal(t, "created_at", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)
	assert.Empty(t, opts.Status)
	assert.Empty(t, opts.Priority)
	assert.Zero(t, opts.AssignedTo)
}

func TestSortFieldAllowList(t *testing.T) {
	for _, raw := range []string{"__proto__", "password_hash", "id; DROP TABLE tasks", ""} {
		opts := ParseTaskListOptions(url.Values{"sortBy": {raw}})
		assert.Equal(t, "created_at", opts.SortBy, "sortBy %q must fall back to the default", raw)
	}

	opts := ParseTaskListOptions(url.Values{"sortBy": {"due_date"}, "sortOrder": {"ASC"}})
	assert.Equal(t, "due_date", opts.SortBy)
	assert.Equal(t, "asc", opts.SortOrder)
	assert.Equal(t, "due_date asc", opts.Sort())
}

func TestUnknownEnumValuesIgnored(t *testing.T) {
	opts := ParseTaskListOptions(url.Values{
		"status":   {"archived"},
		"priority": {"urgent"},
	})

	assert.Empty(t, opts.Status)
	assert.Empty(t, opts.Priority)

	opts = ParseTaskListOptions(url.Values{
		"status":   {models.TaskStatusDone},
		"priority": {models.TaskPriorityHigh},
	})

	assert.Equal(t, models.TaskStatusDone, opts.Status)
	assert.Equal(t, models.TaskPriorityHigh, opts.Priority)
}

func TestMalformedAssignedToIgnored(t *testing.T) {
	for _, raw := range []string{"abc", "-4", "0", "1e9"} {
		opts := ParseTaskListOptions(url.Values{"assignedTo": {raw}})
		assert.Zero(t, opts.AssignedTo, "assignedTo %q must be ignored", raw)
	}

	opts := ParseTaskListOptions(url.Values{"assignedTo": {"42"}})
	assert.EqualValues(t, 42, opts.AssignedTo)
}

func TestPageAndLimitClamping(t *testing.T) {
	opts := ParseTaskListOptions(url.Values{"page": {"-3"}, "limit": {"0"}})
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, DefaultLimit, opts.Limit)

	opts = ParseTaskListOptions(url.Values{"limit": {"10000"}})
	assert.Equal(t, MaxLimit, opts.Limit)

	opts = ParseTaskListOptions(url.Values{"page": {"3"}, "limit": {"25"}})
	assert.Equal(t, 50, opts.Offset())
}

func TestPaginate(t *testing.T) {
	p := Paginate(7, 1, 3)
	assert.EqualValues(t, 7, p.Total)
	assert.Equal(t, 3, p.Pages)

	p = Paginate(9, 2, 3)
	assert.Equal(t, 3, p.Pages)

	p = Paginate(0, 1, 20)
	assert.Zero(t, p.Pages)
}

func TestParseNoteListOptions(t *testing.T) {
	opts := ParseNoteListOptions(url.Values{"sortBy": {"title"}})

	// title is sortable for tasks but not for notes.
	assert.Equal(t, "created_at", opts.SortBy)

	opts = ParseNoteListOptions(url.Values{"sortBy": {"updated_at"}, "createdBy": {"7"}})
	assert.Equal(t, "updated_at", opts.SortBy)
	assert.EqualValues(t, 7, opts.CreatedBy)
}
