package calculation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, calc *Calculation) error
	Update(ctx context.Context, calc *Calculation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Calculation, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, includeSuperseded bool) ([]Calculation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Replace(ctx context.Context, oldID uuid.UUID, replacement *Calculation) error

	CountUncoveredLines(ctx context.Context, projectID uuid.UUID) (int, error)
	MarkSuperseded(ctx context.Context, projectID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, calc *Calculation) error {
	return r.db.WithContext(ctx).Create(calc).Error
}

func (r *gormRepository) Update(ctx context.Context, calc *Calculation) error {
	return r.db.WithContext(ctx).Save(calc).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Calculation, error) {
	var calc Calculation
	if err := r.db.WithContext(ctx).First(&calc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *gormRepository) ListByProject(ctx context.Context, projectID uuid.UUID, includeSuperseded bool) ([]Calculation, error) {
	var calcs []Calculation
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if !includeSuperseded {
		query = query.Where("superseded = ?", false)
	}
	if err := query.Order("calculated_at ASC").Find(&calcs).Error; err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	return calcs, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Calculation{}, "id = ?", id).Error
}

// Replace swaps a calculation for its recomputed replacement in one
// transaction, so the activity line never observes a gap in coverage.
func (r *gormRepository) Replace(ctx context.Context, oldID uuid.UUID, replacement *Calculation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Calculation{}, "id = ?", oldID).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
}

// CountUncoveredLines counts activity data lines with no current calculation.
func (r *gormRepository) CountUncoveredLines(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("activity_data").
		Where("activity_data.project_id = ?", projectID).
		Where("NOT EXISTS (SELECT 1 FROM calculations c WHERE c.activity_data_id = activity_data.id AND c.superseded = false)").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count uncovered activity lines: %w", err)
	}
	return int(count), nil
}

// MarkSuperseded flags every current calculation of the project as belonging
// to a previous submission cycle.
func (r *gormRepository) MarkSuperseded(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Calculation{}).
		Where("project_id = ? AND superseded = ?", projectID, false).
		Update("superseded", true).Error
}
