package handlers

import (
	"net/http"

	"project-hub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db             *gorm.DB
	projectService services.ProjectService
}

func NewProjectHandler(db *gorm.DB, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{db: db, projectService: projectService}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	projects, err := h.projectService.ListProjects(h.db, userID)
	if err != nil {
		handleStoreError(c, err, "project not found")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	id := uuid.FromStringOrNil(c.Param("id"))

	project, err := h.projectService.GetProject(h.db, userID, id)
	if err != nil {
		handleStoreError(c, err, "project not found")
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject persists a project owned by the caller. Any owner the
// client supplies in the body is ignored.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var input services.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	project, err := h.projectService.CreateProject(h.db, userID, input)
	if err != nil {
		handleStoreError(c, err, "project not found")
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	id := uuid.FromStringOrNil(c.Param("id"))

	var input services.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	project, err := h.projectService.UpdateProject(h.db, userID, id, input)
	if err != nil {
		handleStoreError(c, err, "project not found")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	id := uuid.FromStringOrNil(c.Param("id"))

	if err := h.projectService.DeleteProject(h.db, userID, id); err != nil {
		handleStoreError(c, err, "project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
