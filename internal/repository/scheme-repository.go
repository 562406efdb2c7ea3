package repository

import (
	"strings"

	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"gorm.io/gorm"
)

type SchemeRepository interface {
	Create(scheme *domain.Scheme) error
	Save(scheme *domain.Scheme) error
	Delete(schemeID uint) error
	FindByID(schemeID uint) (*domain.Scheme, error)
	ListActive(filters dto.SchemeFilters, excludeIDs []uint) ([]domain.Scheme, error)
	ListByIDs(ids []uint, activeOnly bool) ([]domain.Scheme, error)
	ListAll() ([]domain.Scheme, error)
	Count() (int64, error)
}

type schemeRepository struct {
	db *gorm.DB
}

func NewSchemeRepository(db *gorm.DB) SchemeRepository {
	return &schemeRepository{db: db}
}

func (r *schemeRepository) Create(scheme *domain.Scheme) error {
	return r.db.Create(scheme).Error
}

func (r *schemeRepository) Save(scheme *domain.Scheme) error {
	return r.db.Save(scheme).Error
}

func (r *schemeRepository) Delete(schemeID uint) error {
	return r.db.Delete(&domain.Scheme{}, schemeID).Error
}

func (r *schemeRepository) FindByID(schemeID uint) (*domain.Scheme, error) {
	var scheme domain.Scheme
	if err := r.db.First(&scheme, schemeID).Error; err != nil {
		return nil, err
	}
	return &scheme, nil
}

// ListActive returns active schemes for the user-facing catalog,
// excluding the given scheme IDs (schemes already applied to).
func (r *schemeRepository) ListActive(filters dto.SchemeFilters, excludeIDs []uint) ([]domain.Scheme, error) {
	var schemes []domain.Scheme

	q := r.db.Where("is_active = ?", true).Order("created_at DESC")
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.SchemeType != "" {
		q = q.Where("scheme_type = ?", filters.SchemeType)
	}
	if filters.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}

	if err := q.Find(&schemes).Error; err != nil {
		return nil, err
	}
	return schemes, nil
}

func (r *schemeRepository) ListByIDs(ids []uint, activeOnly bool) ([]domain.Scheme, error) {
	if len(ids) == 0 {
		return []domain.Scheme{}, nil
	}
	var schemes []domain.Scheme
	q := r.db.Where("id IN ?", ids)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&schemes).Error; err != nil {
		return nil, err
	}
	return schemes, nil
}

func (r *schemeRepository) ListAll() ([]domain.Scheme, error) {
	var schemes []domain.Scheme
	if err := r.db.Order("created_at DESC").Find(&schemes).Error; err != nil {
		return nil, err
	}
	return schemes, nil
}

func (r *schemeRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Scheme{}).Count(&n).Error
	return n, err
}
