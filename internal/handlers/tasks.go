package handlers

import (
	"errors"
	"net/http"

	"project-hub/backend/internal/models"
	"project-hub/backend/internal/services"
	"project-hub/backend/internal/worker"
	"project-hub/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	reminders   *worker.Queue
}

// NewTaskHandler wires the task routes. reminders may be nil, in which
// case due-date notifications are skipped.
func NewTaskHandler(db *gorm.DB, taskService services.TaskService, reminders *worker.Queue) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, reminders: reminders}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	tasks, err := h.taskService.ListTasks(h.db, userID)
	if err != nil {
		handleStoreError(c, err, "task not found")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	id := uuid.FromStringOrNil(c.Param("id"))

	task, err := h.taskService.GetTask(h.db, userID, id)
	if err != nil {
		handleStoreError(c, err, "task not found")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and project_id are required"})
		return
	}

	task, err := h.taskService.CreateTask(h.db, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotOwned) {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrProjectNotOwned.Error()})
			return
		}
		handleStoreError(c, err, "task not found")
		return
	}

	h.scheduleReminder(c, userID, task)
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	id := uuid.FromStringOrNil(c.Param("id"))

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and project_id are required"})
		return
	}

	task, err := h.taskService.UpdateTask(h.db, userID, id, input)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotOwned) {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrProjectNotOwned.Error()})
			return
		}
		handleStoreError(c, err, "task not found")
		return
	}

	h.scheduleReminder(c, userID, task)
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	id := uuid.FromStringOrNil(c.Param("id"))

	if err := h.taskService.DeleteTask(h.db, userID, id); err != nil {
		handleStoreError(c, err, "task not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// scheduleReminder enqueues a due-date reminder. Failures are logged
// and swallowed: the mutation already succeeded.
func (h *TaskHandler) scheduleReminder(c *gin.Context, userID uuid.UUID, task models.Task) {
	if h.reminders == nil || task.DueDate == nil {
		return
	}
	err := h.reminders.Enqueue(c.Request.Context(), worker.Reminder{
		TaskID:    task.ID.String(),
		ProjectID: task.ProjectID.String(),
		UserID:    userID.String(),
		Title:     task.Title,
		DueDate:   *task.DueDate,
	})
	if err != nil {
		lg := logger.Get()
		lg.Warn().Err(err).Str("task_id", task.ID.String()).Msg("reminder enqueue failed")
	}
}
