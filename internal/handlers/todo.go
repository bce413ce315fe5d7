package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tasklight-dev/tasklight/internal/models"
	"github.com/tasklight-dev/tasklight/internal/progress"
	"github.com/tasklight-dev/tasklight/internal/store"
	"github.com/tasklight-dev/tasklight/internal/utils"
	"gorm.io/datatypes"
)

const dueDateLayout = "2006-01-02"

type CreateTodoRequest struct {
	Title     string          `json:"title" binding:"required"`
	Priority  string          `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate   string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Completed bool            `json:"completed"`
	ProjectID json.RawMessage `json:"project_id"`
}

type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Priority  *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate   *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Completed *bool   `json:"completed"`
}

type TodoResponse struct {
	ID          uint    `json:"id"`
	ProjectID   *uint   `json:"project_id"`
	ProjectName *string `json:"project_name,omitempty"`
	Title       string  `json:"title"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Completed   bool    `json:"completed"`
}

type TodoHandler struct {
	todos    store.TodoStore
	projects store.ProjectStore
	progress *progress.Engine
}

func NewTodoHandler(todos store.TodoStore, projects store.ProjectStore, progress *progress.Engine) *TodoHandler {
	return &TodoHandler{todos: todos, projects: projects, progress: progress}
}

func (h *TodoHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var projectFilter *uint

	if raw := ctx.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}
		projectID := uint(id)
		projectFilter = &projectID
	}

	records, err := h.todos.List(userID, projectFilter)

	if err != nil {
		log.Printf("Failed to list todos: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]TodoResponse, 0, len(records))

	for _, record := range records {
		response = append(response, TodoResponse{
			ID:          record.ID,
			ProjectID:   record.ProjectID,
			ProjectName: record.ProjectName,
			Title:       record.Title,
			Priority:    record.Priority,
			DueDate:     formatDueDate(record.DueDate),
			Completed:   record.Completed,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    response,
	})
}

func (h *TodoHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTodoRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if strings.TrimSpace(body.Title) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	projectID, err := parseProjectID(body.ProjectID)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
		return
	}

	// A todo may only reference a project the caller owns.
	if projectID != nil {
		if _, err := h.projects.Get(userID, *projectID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found or unauthorized"})
				return
			}
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	priority := body.Priority

	if priority == "" {
		priority = models.PriorityLow
	}

	todo := models.Todo{
		UserID:    userID,
		ProjectID: projectID,
		Title:     body.Title,
		Priority:  priority,
		DueDate:   parseDueDate(body.DueDate),
		Completed: body.Completed,
	}

	if err := h.todos.Create(&todo); err != nil {
		log.Printf("Failed to create todo: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.progress.TaskMutated(progress.Event{UserID: userID, ProjectID: todo.ProjectID})

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "success",
		"data": TodoResponse{
			ID:        todo.ID,
			ProjectID: todo.ProjectID,
			Title:     todo.Title,
			Priority:  todo.Priority,
			DueDate:   formatDueDate(todo.DueDate),
			Completed: todo.Completed,
		},
	})
}

func (h *TodoHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	todoID, err := parseID(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo id"})
		return
	}

	var body UpdateTodoRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Title != nil && strings.TrimSpace(*body.Title) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
		return
	}

	// The omitempty bindings skip explicit empty strings; reject them
	// here so an invalid priority is never written and an empty due date
	// is not silently dropped.
	if body.Priority != nil && *body.Priority == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Priority must be one of low, medium, high"})
		return
	}

	if body.DueDate != nil && *body.DueDate == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Due date must be formatted YYYY-MM-DD"})
		return
	}

	patch := store.TodoPatch{
		Title:     body.Title,
		Priority:  body.Priority,
		Completed: body.Completed,
	}

	if body.DueDate != nil {
		patch.DueDate = parseDueDate(*body.DueDate)
	}

	change, err := h.todos.Update(userID, todoID, patch)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Todo not found or unauthorized"})
			return
		}
		log.Printf("Failed to update todo: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.progress.TaskMutated(progress.Event{UserID: userID, ProjectID: change.ProjectID})

	ctx.JSON(http.StatusOK, gin.H{
		"message": "success",
		"changes": change.Changes,
	})
}

func (h *TodoHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	todoID, err := parseID(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo id"})
		return
	}

	change, err := h.todos.Delete(userID, todoID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Todo not found or unauthorized"})
			return
		}
		log.Printf("Failed to delete todo: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.progress.TaskMutated(progress.Event{UserID: userID, ProjectID: change.ProjectID})

	ctx.JSON(http.StatusOK, gin.H{
		"message": "deleted",
		"changes": change.Changes,
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

// parseProjectID accepts a JSON number, a quoted number, the JSON null
// literal, or the string "null" (which some clients send for "no project").
func parseProjectID(raw json.RawMessage) (*uint, error) {
	s := strings.TrimSpace(string(raw))

	if s == "" || s == "null" {
		return nil, nil
	}

	s = strings.Trim(s, `"`)

	if s == "" || s == "null" {
		return nil, nil
	}

	id, err := strconv.ParseUint(s, 10, 32)

	if err != nil {
		return nil, err
	}

	projectID := uint(id)

	return &projectID, nil
}

func parseDueDate(raw string) *datatypes.Date {
	if raw == "" {
		return nil
	}

	// The layout was already validated by the binding tag.
	t, err := time.Parse(dueDateLayout, raw)

	if err != nil {
		return nil
	}

	date := datatypes.Date(t)

	return &date
}

func formatDueDate(date *datatypes.Date) *string {
	if date == nil {
		return nil
	}

	formatted := time.Time(*date).Format(dueDateLayout)

	return &formatted
}
