// Package query translates caller-supplied list parameters into safe gorm
// scopes. Caller strings never reach the store as structural operators:
// enums outside the known sets are dropped, sort fields are allow-listed,
// and page/limit are clamped. Building a query never mutates state.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	defaultSortField = "created_at"
)

var taskSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"priority":   true,
	"status":     true,
	"title":      true,
}

var noteSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Paginate computes the page summary for a filtered count. Pages is
// ceil(total/limit).
func Paginate(total int64, page, limit int) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

type TaskListOptions struct {
	Search     string
	Status     string
	Priority   string
	AssignedTo uint
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// ParseTaskListOptions normalizes raw query values. Unknown enum values and
// malformed ids are ignored rather than rejected.
func ParseTaskListOptions(values url.Values) TaskListOptions {
	opts := TaskListOptions{
		Search:    strings.TrimSpace(values.Get("search")),
		Page:      parsePage(values.Get("page")),
		Limit:     parseLimit(values.Get("limit")),
		SortBy:    parseSortField(values.Get("sortBy"), taskSortFields),
		SortOrder: parseSortOrder(values.Get("sortOrder")),
	}

	if status := values.Get("status"); models.KnownTaskStatus(status) {
		opts.Status = status
	}

	if priority := values.Get("priority"); models.KnownTaskPriority(priority) {
		opts.Priority = priority
	}

	if raw := values.Get("assignedTo"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil && id > 0 {
			opts.AssignedTo = uint(id)
		}
	}

	return opts
}

// Filter applies the task filters to db. The same scope must back both the
// count query and the page query so totals match the filtered set.
func (o TaskListOptions) Filter(db *gorm.DB) *gorm.DB {
	if o.Search != "" {
		pattern := "%" + strings.ToLower(o.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if o.Status != "" {
		db = db.Where("status = ?", o.Status)
	}

	if o.Priority != "" {
		db = db.Where("priority = ?", o.Priority)
	}

	if o.AssignedTo != 0 {
		db = db.Where("assigned_to = ?", o.AssignedTo)
	}

	return db
}

func (o TaskListOptions) Sort() string {
	return o.SortBy + " " + o.SortOrder
}

func (o TaskListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

type NoteListOptions struct {
	Search    string
	CreatedBy uint
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func ParseNoteListOptions(values url.Values) NoteListOptions {
	opts := NoteListOptions{
		Search:    strings.TrimSpace(values.Get("search")),
		Page:      parsePage(values.Get("page")),
		Limit:     parseLimit(values.Get("limit")),
		SortBy:    parseSortField(values.Get("sortBy"), noteSortFields),
		SortOrder: parseSortOrder(values.Get("sortOrder")),
	}

	if raw := values.Get("createdBy"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil && id > 0 {
			opts.CreatedBy = uint(id)
		}
	}

	return opts
}

func (o NoteListOptions) Filter(db *gorm.DB) *gorm.DB {
	if o.Search != "" {
		pattern := "%" + strings.ToLower(o.Search) + "%"
		db = db.Where("LOWER(content) LIKE ?", pattern)
	}

	if o.CreatedBy != 0 {
		db = db.Where("created_by = ?", o.CreatedBy)
	}

	return db
}

func (o NoteListOptions) Sort() string {
	return o.SortBy + " " + o.SortOrder
}

func (o NoteListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)

	if err != nil || page < 1 {
		return 1
	}

	return page
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)

	if err != nil || limit < 1 {
		return DefaultLimit
	}

	if limit > MaxLimit {
		return MaxLimit
	}

	return limit
}

func parseSortField(raw string, allowed map[string]bool) string {
	if allowed[raw] {
		return raw
	}

	return defaultSortField
}

func parseSortOrder(raw string) string {
	if strings.EqualFold(raw, "asc") {
		return "asc"
	}

	return "desc"
}
