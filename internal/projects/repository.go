package projects

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ghg-portal/reporting-portal-backend/internal/calculation"
	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	// GetForUpdate loads the project inside tx with a row lock so
	// concurrent transitions serialize on the database.
	GetForUpdate(tx *gorm.DB, id uuid.UUID) (*Project, error)
	// Save persists the project inside tx when one is given.
	Save(tx *gorm.DB, project *Project) error
	Update(ctx context.Context, project *Project) error
	List(ctx context.Context, filter ProjectFilter) ([]Project, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *gormRepository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *gormRepository) GetForUpdate(tx *gorm.DB, id uuid.UUID) (*Project, error) {
	var project Project
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *gormRepository) Save(tx *gorm.DB, project *Project) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Save(project).Error
}

func (r *gormRepository) Update(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *gormRepository) List(ctx context.Context, filter ProjectFilter) ([]Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&Project{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ReportingYear != 0 {
		query = query.Where("reporting_year = ?", filter.ReportingYear)
	}
	if filter.CreatedBy != uuid.Nil {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var projects []Project
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Project{}, "id = ?", id).Error
}

// GetStatus implements the status gateway used by the collection and
// calculation services.
func (r *gormRepository) GetStatus(ctx context.Context, projectID uuid.UUID) (workflows.Status, error) {
	var project Project
	err := r.db.WithContext(ctx).Select("status").First(&project, "id = ?", projectID).Error
	if err != nil {
		return "", err
	}
	return project.Status, nil
}

// UpdateTotals implements calculation.ProjectGateway.
func (r *gormRepository) UpdateTotals(ctx context.Context, projectID uuid.UUID, totals calculation.Totals) error {
	return r.db.WithContext(ctx).Model(&Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"scope1_total": totals.Scope1,
			"scope2_total": totals.Scope2,
			"scope3_total": totals.Scope3,
			"total_co2e":   totals.Total,
		}).Error
}
