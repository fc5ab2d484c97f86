package services

import (
	"time"

	"project-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ProjectInput carries the writable fields of a Project. The owner is
// never part of the input: it is always taken from the session.
type ProjectInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

type ProjectService interface {
	ListProjects(db *gorm.DB, userID uuid.UUID) ([]models.Project, error)
	GetProject(db *gorm.DB, userID, id uuid.UUID) (models.Project, error)
	CreateProject(db *gorm.DB, userID uuid.UUID, input ProjectInput) (models.Project, error)
	UpdateProject(db *gorm.DB, userID, id uuid.UUID, input ProjectInput) (models.Project, error)
	DeleteProject(db *gorm.DB, userID, id uuid.UUID) error
}

type ProjectServiceImpl struct{}

func NewProjectService() *ProjectServiceImpl {
	return &ProjectServiceImpl{}
}

func (s *ProjectServiceImpl) ListProjects(db *gorm.DB, userID uuid.UUID) ([]models.Project, error) {
	projects := []models.Project{}
	err := db.Where("user_id = ?", userID).Find(&projects).Error
	return projects, err
}

// GetProject folds ownership into the lookup predicate: a project owned
// by someone else is indistinguishable from a missing one.
func (s *ProjectServiceImpl) GetProject(db *gorm.DB, userID, id uuid.UUID) (models.Project, error) {
	var project models.Project
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&project).Error
	return project, err
}

func (s *ProjectServiceImpl) CreateProject(db *gorm.DB, userID uuid.UUID, input ProjectInput) (models.Project, error) {
	if input.Status == "" {
		input.Status = models.ProjectStatusActive
	}

	project := models.Project{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		DueDate:     input.DueDate,
	}
	if err := db.Create(&project).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// UpdateProject overwrites every writable field of an owned project.
// Fields omitted from the request fall back to their defaults; this is
// full-PUT replacement, not a partial patch.
func (s *ProjectServiceImpl) UpdateProject(db *gorm.DB, userID, id uuid.UUID, input ProjectInput) (models.Project, error) {
	project, err := s.GetProject(db, userID, id)
	if err != nil {
		return models.Project{}, err
	}

	if input.Status == "" {
		input.Status = models.ProjectStatusActive
	}

	project.Name = input.Name
	project.Description = input.Description
	project.Status = input.Status
	project.DueDate = input.DueDate

	if err := db.Save(&project).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// DeleteProject removes an owned project. Its tasks are left in place:
// there is no cascade here, the rows become orphaned.
func (s *ProjectServiceImpl) DeleteProject(db *gorm.DB, userID, id uuid.UUID) error {
	project, err := s.GetProject(db, userID, id)
	if err != nil {
		return err
	}
	return db.Delete(&project).Error
}
