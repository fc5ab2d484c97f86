package services

import (
	"errors"
	"time"

	"project-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ErrProjectNotOwned is returned when a task references a project the
// caller does not own (or that does not exist at all).
var ErrProjectNotOwned = errors.New("invalid project id")

type TaskInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   uuid.UUID  `json:"project_id" binding:"required"`
}

type TaskService interface {
	ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error)
	GetTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error)
	CreateTask(db *gorm.DB, userID uuid.UUID, input TaskInput) (models.Task, error)
	UpdateTask(db *gorm.DB, userID, id uuid.UUID, input TaskInput) (models.Task, error)
	DeleteTask(db *gorm.DB, userID, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// ownedTasks scopes every task query to projects owned by userID. The
// join is the task-side equivalent of the project lookup predicate.
func ownedTasks(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.user_id = ?", userID)
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	err := ownedTasks(db.Model(&models.Task{}), userID).Find(&tasks).Error
	return tasks, err
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := ownedTasks(db.Model(&models.Task{}), userID).
		Where("tasks.id = ?", id).
		First(&task).Error
	return task, err
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, userID uuid.UUID, input TaskInput) (models.Task, error) {
	if err := s.checkProjectOwned(db, userID, input.ProjectID); err != nil {
		return models.Task{}, err
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask overwrites every writable field of an owned task. Moving
// the task to another project is allowed only when the destination is
// also owned by the caller.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID, id uuid.UUID, input TaskInput) (models.Task, error) {
	task, err := s.GetTask(db, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	if input.ProjectID != task.ProjectID {
		if err := s.checkProjectOwned(db, userID, input.ProjectID); err != nil {
			return models.Task{}, err
		}
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	task.ProjectID = input.ProjectID
	task.Title = input.Title
	task.Description = input.Description
	task.Completed = input.Completed
	task.Priority = input.Priority
	task.DueDate = input.DueDate

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	task, err := s.GetTask(db, userID, id)
	if err != nil {
		return err
	}
	return db.Delete(&task).Error
}

func (s *TaskServiceImpl) checkProjectOwned(db *gorm.DB, userID, projectID uuid.UUID) error {
	var project models.Project
	err := db.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotOwned
	}
	return err
}
