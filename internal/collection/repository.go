package collection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateLine(ctx context.Context, line *ActivityData) error
	UpdateLine(ctx context.Context, line *ActivityData) error
	GetLine(ctx context.Context, id uuid.UUID) (*ActivityData, error)
	GetLineByCriteria(ctx context.Context, projectID uuid.UUID, criteriaID uint) (*ActivityData, error)
	ListLines(ctx context.Context, projectID uuid.UUID) ([]ActivityData, error)
	DeleteLine(ctx context.Context, id uuid.UUID) error

	CreateEvidence(ctx context.Context, ev *Evidence) error
	GetEvidence(ctx context.Context, id uuid.UUID) (*Evidence, error)
	DeleteEvidence(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateLine(ctx context.Context, line *ActivityData) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *gormRepository) UpdateLine(ctx context.Context, line *ActivityData) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *gormRepository) GetLine(ctx context.Context, id uuid.UUID) (*ActivityData, error) {
	var line ActivityData
	if err := r.db.WithContext(ctx).Preload("Evidence").First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *gormRepository) GetLineByCriteria(ctx context.Context, projectID uuid.UUID, criteriaID uint) (*ActivityData, error) {
	var line ActivityData
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND criteria_id = ?", projectID, criteriaID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *gormRepository) ListLines(ctx context.Context, projectID uuid.UUID) ([]ActivityData, error) {
	var lines []ActivityData
	err := r.db.WithContext(ctx).
		Preload("Evidence").
		Where("project_id = ?", projectID).
		Order("criteria_id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity data: %w", err)
	}
	return lines, nil
}

// DeleteLine removes the line; evidence rows cascade with it.
func (r *gormRepository) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Evidence").Delete(&ActivityData{ID: id}).Error
}

func (r *gormRepository) CreateEvidence(ctx context.Context, ev *Evidence) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		return tx.Model(&ActivityData{}).
			Where("id = ?", ev.ActivityDataID).
			UpdateColumn("evidence_count", gorm.Expr("evidence_count + 1")).Error
	})
}

func (r *gormRepository) GetEvidence(ctx context.Context, id uuid.UUID) (*Evidence, error) {
	var ev Evidence
	if err := r.db.WithContext(ctx).First(&ev, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *gormRepository) DeleteEvidence(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev Evidence
		if err := tx.First(&ev, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ev).Error; err != nil {
			return err
		}
		return tx.Model(&ActivityData{}).
			Where("id = ? AND evidence_count > 0", ev.ActivityDataID).
			UpdateColumn("evidence_count", gorm.Expr("evidence_count - 1")).Error
	})
}
