package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/mohamedjafersadhik43/construction-erp/internal/errors"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/pagination"
	"github.com/mohamedjafersadhik43/construction-erp/internal/services"
)

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents the request payload for creating a project
type CreateProjectRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=1000"`
	Budget      decimal.Decimal `json:"budget" binding:"required"`
	StartDate   *string         `json:"start_date"`
	EndDate     *string         `json:"end_date"`
}

// UpdateProjectRequest represents the request payload for a partial project update
type UpdateProjectRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Budget      *decimal.Decimal `json:"budget"`
	Spent       *decimal.Decimal `json:"spent"`
	Progress    *int             `json:"progress" binding:"omitempty,gte=0,lte=100"`
	Status      *string          `json:"status" binding:"omitempty,project_status"`
	StartDate   *string          `json:"start_date"`
	EndDate     *string          `json:"end_date"`
}

// ListProjectsQuery holds the query parameters for listing projects.
type ListProjectsQuery struct {
	Status *string `form:"status" binding:"omitempty,project_status"`
	pagination.PageRequest
}

// CreateProject handles project creation
// @Summary     Create a project
// @Description Create a new project (Admin or Manager)
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.ProjectCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
	}

	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format"))
			return
		}
		input.StartDate = &parsed
	}
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format"))
			return
		}
		input.EndDate = &parsed
	}

	project, err := h.projectService.CreateProject(input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects
// @Summary     List projects
// @Description Get a paginated list of projects, optionally filtered by status
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Project status filter"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Projects"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	var query ListProjectsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.ProjectStatus
	if query.Status != nil {
		s := models.ProjectStatus(*query.Status)
		status = &s
	}

	result, err := h.projectService.GetProjects(status, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(result.Data),
		"projects":    result.Data,
		"page":        result.Page,
		"total_items": result.TotalItems,
		"total_pages": result.TotalPages,
	})
}

// GetProjectByID handles fetching a single project
// @Summary     Get project by ID
// @Description Get a single project by ID
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} models.Project "Project"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles partial project updates
// @Summary     Update a project
// @Description Update an existing project (Admin or Manager); omitted fields keep their values
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Project ID"
// @Param       request body UpdateProjectRequest true "Fields to update"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.ProjectUpdateFields{
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		Spent:       req.Spent,
		Progress:    req.Progress,
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		fields.Status = &status
	}
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, parseErr := parseDate(*req.StartDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format"))
			return
		}
		fields.StartDate = &parsed
	}
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, parseErr := parseDate(*req.EndDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format"))
			return
		}
		fields.EndDate = &parsed
	}

	project, err := h.projectService.UpdateProject(id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles project deletion
// @Summary     Delete a project
// @Description Delete a project (Admin only)
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeleteProject(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
