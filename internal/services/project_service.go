package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/mohamedjafersadhik43/construction-erp/internal/errors"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/pagination"
)

// projectService handles project CRUD. Projects are consumed read-only by the
// risk scoring engine; this service never touches the ledger.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a new project.
func (s *projectService) CreateProject(input ProjectCreateInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name and budget are required")
	}
	if input.Budget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project budget cannot be negative")
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Budget:      input.Budget,
		Status:      models.ProjectStatusActive,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return project, nil
}

// GetProjects retrieves a paginated list of projects, newest first, optionally
// filtered by status.
func (s *projectService) GetProjects(status *models.ProjectStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID retrieves a project by ID.
func (s *projectService) GetProjectByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// UpdateProject applies a partial update. Nil fields keep their stored value.
func (s *projectService) UpdateProject(id uint, fields ProjectUpdateFields) (*models.Project, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Budget != nil {
		updates["budget"] = *fields.Budget
	}
	if fields.Spent != nil {
		updates["spent"] = *fields.Spent
	}
	if fields.Progress != nil {
		updates["progress"] = *fields.Progress
	}
	if fields.Status != nil {
		updates["status"] = *fields.Status
	}
	if fields.StartDate != nil {
		updates["start_date"] = *fields.StartDate
	}
	if fields.EndDate != nil {
		updates["end_date"] = *fields.EndDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.First(project, id).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return project, nil
}

// DeleteProject removes a project. Invoices that referenced it keep their
// rows with a cleared project reference.
func (s *projectService) DeleteProject(id uint) error {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Invoice{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
