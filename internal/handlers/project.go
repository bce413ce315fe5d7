package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasklight-dev/tasklight/internal/models"
	"github.com/tasklight-dev/tasklight/internal/store"
	"github.com/tasklight-dev/tasklight/internal/utils"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ClearDataRequest struct {
	Type string `json:"type" binding:"required,oneof=tasks projects all"`
}

type ProjectResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Completed      bool   `json:"completed"`
	TaskCount      int64  `json:"task_count"`
	CompletedCount int64  `json:"completed_count"`
}

type ProjectHandler struct {
	projects store.ProjectStore
}

func NewProjectHandler(projects store.ProjectStore) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summaries, err := h.projects.List(userID)

	if err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]ProjectResponse, 0, len(summaries))

	for _, summary := range summaries {
		response = append(response, ProjectResponse{
			ID:             summary.ID,
			Name:           summary.Name,
			Description:    summary.Description,
			Completed:      summary.Completed,
			TaskCount:      summary.TaskCount,
			CompletedCount: summary.CompletedCount,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    response,
	})
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	project := models.Project{
		UserID:      userID,
		Name:        body.Name,
		Description: body.Description,
	}

	if err := h.projects.Create(&project); err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "success",
		"data": ProjectResponse{
			ID:          project.ID,
			Name:        project.Name,
			Description: project.Description,
			Completed:   project.Completed,
		},
	})
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := parseID(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	changes, err := h.projects.Delete(userID, projectID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found or unauthorized"})
			return
		}
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "deleted",
		"changes": changes,
	})
}

func (h *ProjectHandler) ExportData(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	snapshot, err := h.projects.ExportData(userID)

	if err != nil {
		log.Printf("Failed to export data: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	projects := make([]gin.H, 0, len(snapshot.Projects))

	for _, project := range snapshot.Projects {
		projects = append(projects, gin.H{
			"id":          project.ID,
			"name":        project.Name,
			"description": project.Description,
			"completed":   project.Completed,
			"created_at":  project.CreatedAt,
		})
	}

	todos := make([]gin.H, 0, len(snapshot.Todos))

	for _, todo := range snapshot.Todos {
		todos = append(todos, gin.H{
			"id":         todo.ID,
			"project_id": todo.ProjectID,
			"title":      todo.Title,
			"priority":   todo.Priority,
			"dueDate":    formatDueDate(todo.DueDate),
			"completed":  todo.Completed,
			"created_at": todo.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data": gin.H{
			"projects": projects,
			"todos":    todos,
		},
	})
}

func (h *ProjectHandler) ClearData(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body ClearDataRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Type must be one of tasks, projects, all"})
		return
	}

	if err := h.projects.ClearData(userID, body.Type); err != nil {
		log.Printf("Failed to clear data: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Data cleared successfully"})
}
