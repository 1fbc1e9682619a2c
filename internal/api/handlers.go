package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/dashboard"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
	"github.com/trackboard/trackboard/internal/storage"
)

type Handler struct {
	db      *database.Database
	storage *storage.FileStorage
}

func NewHandler(db *database.Database, storage *storage.FileStorage) *Handler {
	return &Handler{
		db:      db,
		storage: storage,
	}
}

func (h *Handler) CreateProject(c *gin.Context) {
	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.CreateProject(&project); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	respondOK(c, http.StatusCreated, project)
}

func (h *Handler) GetProject(c *gin.Context) {
	projectID, err := h.getProjectIDFromParam(c)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}

	project, err := h.db.GetProject(projectID)
	if err != nil {
		respondError(c, http.StatusNotFound, "Project not found")
		return
	}

	respondOK(c, http.StatusOK, project)
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.db.ListProjects(nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list projects")
		return
	}

	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.Apply(projects, filters, search))
}

func (h *Handler) UpdateProject(c *gin.Context) {
	projectID, err := h.getProjectIDFromParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	project.ID = projectID
	if err := h.db.UpdateProject(&project); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update project")
		return
	}

	respondOK(c, http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	projectID, err := h.getProjectIDFromParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.DeleteProject(projectID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if userID, ok := currentUserID(c); ok && task.CreatedBy == 0 {
		task.CreatedBy = userID
	}

	if err := h.db.CreateTask(&task); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create task")
		return
	}

	respondOK(c, http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.db.GetTask(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}

	respondOK(c, http.StatusOK, task)
}

func (h *Handler) ListTasks(c *gin.Context) {
	var q database.TaskQuery
	if pid := queryUint(c, "project_id"); pid != nil {
		q.ProjectID = pid
	}
	if sid := queryUint(c, "sprint_id"); sid != nil {
		q.SprintID = sid
	}

	tasks, err := h.db.ListTasks(q)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	// Remaining dimensions (status, tags, assignee, date windows, search)
	// run through the in-memory predicate engine.
	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.Apply(tasks, filters, search))
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	existing, err := h.db.GetTask(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task.ID = uint(id)
	if task.ProjectID == 0 {
		task.ProjectID = existing.ProjectID
	}
	if userID, ok := currentUserID(c); ok {
		task.UpdatedBy = &userID
	}

	if err := h.db.UpdateTask(&task); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update task")
		return
	}

	respondOK(c, http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.db.DeleteTask(uint(id)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Project-scoped task handlers

func (h *Handler) ListProjectTasks(c *gin.Context) {
	projectID, err := h.getProjectIDFromParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.db.ListTasks(database.TaskQuery{ProjectID: &projectID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.Apply(tasks, filters, search))
}

func (h *Handler) CreateProjectTask(c *gin.Context) {
	projectID, err := h.getProjectIDFromParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task.ProjectID = projectID
	if userID, ok := currentUserID(c); ok && task.CreatedBy == 0 {
		task.CreatedBy = userID
	}

	if err := h.db.CreateTask(&task); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create task")
		return
	}

	respondOK(c, http.StatusCreated, task)
}

func (h *Handler) AddComment(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var comment models.Comment
	if err := c.ShouldBindJSON(&comment); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment.TaskID = uint(taskID)
	if err := h.db.AddComment(&comment); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	respondOK(c, http.StatusCreated, comment)
}

func (h *Handler) UploadAttachment(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided")
		return
	}

	task, err := h.db.GetTask(uint(taskID))
	if err != nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}

	path, err := h.storage.SaveFile(file, task.ProjectID, uint(taskID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save file")
		return
	}

	attachment := models.Attachment{
		TaskID:   uint(taskID),
		Filename: file.Filename,
		Path:     path,
		Size:     file.Size,
		MimeType: file.Header.Get("Content-Type"),
	}

	if err := h.db.AddAttachment(&attachment); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save attachment record")
		return
	}

	respondOK(c, http.StatusCreated, attachment)
}

func (h *Handler) DownloadAttachment(c *gin.Context) {
	id, err := paramUint(c, "attachment_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid attachment ID")
		return
	}

	var attachment models.Attachment
	if err := h.db.First(&attachment, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Attachment not found")
		return
	}

	file, err := h.storage.GetFile(attachment.Path)
	if err != nil {
		respondError(c, http.StatusNotFound, "Attachment file missing")
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	c.Header("Content-Type", attachment.MimeType)
	c.File(file.Name())
}

// Task dependency handlers

func (h *Handler) GetTaskDependencies(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	deps, err := h.db.GetTaskDependencies(uint(id))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list dependencies")
		return
	}

	respondOK(c, http.StatusOK, deps)
}

func (h *Handler) AddTaskDependency(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var dep models.TaskDependency
	if err := c.ShouldBindJSON(&dep); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dep.TaskID = uint(id)
	if err := h.db.CreateTaskDependency(&dep); err != nil {
		respondError(c, http.StatusConflict, err.Error())
		return
	}

	respondOK(c, http.StatusCreated, dep)
}

func (h *Handler) RemoveTaskDependency(c *gin.Context) {
	depID, err := strconv.ParseUint(c.Param("dep_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid dependency ID")
		return
	}

	if err := h.db.DeleteTaskDependency(uint(depID)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to remove dependency")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Helper to get project ID from path parameter (supports both ID and name)
func (h *Handler) getProjectIDFromParam(c *gin.Context) (uint, error) {
	projectParam := c.Param("project")
	if projectParam == "" {
		projectParam = c.Param("id")
	}

	if projectID, err := strconv.ParseUint(projectParam, 10, 32); err == nil {
		return uint(projectID), nil
	}

	project, err := h.db.GetProjectByName(projectParam)
	if err != nil {
		return 0, fmt.Errorf("project not found: %s", projectParam)
	}
	return project.ID, nil
}

func paramUint(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(v), err
}

func queryUint(c *gin.Context, name string) *uint {
	if s := c.Query(name); s != "" {
		if v, err := strconv.ParseUint(s, 10, 32); err == nil {
			u := uint(v)
			return &u
		}
	}
	return nil
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
