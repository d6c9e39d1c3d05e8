package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateReview writes inside tx when one is given so the record
	// commits or rolls back with the status change.
	CreateReview(ctx context.Context, tx *gorm.DB, rev *Review) error
	CreateApproval(ctx context.Context, tx *gorm.DB, appr *Approval) error
	ListReviews(ctx context.Context, projectID uuid.UUID) ([]Review, error)
	GetApproval(ctx context.Context, projectID uuid.UUID) (*Approval, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *gormRepository) CreateReview(ctx context.Context, tx *gorm.DB, rev *Review) error {
	if err := r.conn(tx).WithContext(ctx).Create(rev).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *gormRepository) CreateApproval(ctx context.Context, tx *gorm.DB, appr *Approval) error {
	if err := r.conn(tx).WithContext(ctx).Create(appr).Error; err != nil {
		return fmt.Errorf("failed to create approval: %w", err)
	}
	return nil
}

func (r *gormRepository) ListReviews(ctx context.Context, projectID uuid.UUID) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *gormRepository) GetApproval(ctx context.Context, projectID uuid.UUID) (*Approval, error) {
	var appr Approval
	if err := r.db.WithContext(ctx).First(&appr, "project_id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &appr, nil
}
