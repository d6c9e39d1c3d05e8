package masterdata

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	ListCriteria(ctx context.Context, activeOnly bool) ([]Criteria, error)
	GetCriteria(ctx context.Context, id uint) (*Criteria, error)
	ListReasonCodes(ctx context.Context, activeOnly bool) ([]ReasonCode, error)
	GetReasonCodeByCode(ctx context.Context, code string) (*ReasonCode, error)
	GetFactor(ctx context.Context, id uint) (*EmissionFactor, error)
	SearchFactors(ctx context.Context, filter FactorFilter) ([]EmissionFactor, error)

	SeedCriteria(ctx context.Context, criteria []Criteria) error
	SeedReasonCodes(ctx context.Context, codes []ReasonCode) error
	SeedFactors(ctx context.Context, factors []EmissionFactor) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListCriteria(ctx context.Context, activeOnly bool) ([]Criteria, error) {
	var criteria []Criteria
	query := r.db.WithContext(ctx).Order("criteria_number ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&criteria).Error; err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	return criteria, nil
}

func (r *gormRepository) GetCriteria(ctx context.Context, id uint) (*Criteria, error) {
	var c Criteria
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) ListReasonCodes(ctx context.Context, activeOnly bool) ([]ReasonCode, error) {
	var codes []ReasonCode
	query := r.db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list reason codes: %w", err)
	}
	return codes, nil
}

func (r *gormRepository) GetReasonCodeByCode(ctx context.Context, code string) (*ReasonCode, error) {
	var rc ReasonCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&rc).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *gormRepository) GetFactor(ctx context.Context, id uint) (*EmissionFactor, error) {
	var f EmissionFactor
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *gormRepository) SearchFactors(ctx context.Context, filter FactorFilter) ([]EmissionFactor, error) {
	var factors []EmissionFactor
	query := r.db.WithContext(ctx).Model(&EmissionFactor{})

	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(search_text) LIKE ?", pattern)
	}
	if filter.Scope != "" {
		query = query.Where("scope = ?", filter.Scope)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if err := query.Order("factor_name ASC").Limit(limit).Find(&factors).Error; err != nil {
		return nil, fmt.Errorf("failed to search emission factors: %w", err)
	}
	return factors, nil
}

func (r *gormRepository) SeedCriteria(ctx context.Context, criteria []Criteria) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Criteria{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&criteria).Error
}

func (r *gormRepository) SeedReasonCodes(ctx context.Context, codes []ReasonCode) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ReasonCode{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&codes).Error
}

func (r *gormRepository) SeedFactors(ctx context.Context, factors []EmissionFactor) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&EmissionFactor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i := range factors {
		factors[i].SearchText = strings.ToLower(strings.Join([]string{
			factors[i].FactorName, factors[i].Category, factors[i].Subcategory, factors[i].Region,
		}, " "))
	}
	return r.db.WithContext(ctx).Create(&factors).Error
}
