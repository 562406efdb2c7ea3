package repository

import (
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// CreateWithDocuments inserts the application row and all of its
	// document rows in one transaction.
	CreateWithDocuments(app *domain.Application, docs []domain.ApplicationDocument) error

	FindByID(id uint) (*domain.Application, error)
	FindDocumentByID(id uint) (*domain.ApplicationDocument, error)
	ListForUser(userID uint) ([]domain.Application, error)
	ListAll(filters dto.ApplicationFilters) ([]domain.Application, error)
	Save(app *domain.Application) error

	// DeleteByID removes the application and its documents; used as the
	// compensating action when a file commit fails after the rows landed.
	DeleteByID(id uint) error

	SchemeIDsForUser(userID uint) ([]uint, error)
	HasApplied(userID, schemeID uint) (bool, error)
	Count() (int64, error)
	CountByStatus(statuses ...domain.ApplicationStatus) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) CreateWithDocuments(app *domain.Application, docs []domain.ApplicationDocument) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		for i := range docs {
			docs[i].ApplicationID = app.ID
		}
		if err := tx.Create(&docs).Error; err != nil {
			return err
		}
		app.Documents = docs
		return nil
	})
}

func (r *applicationRepository) FindByID(id uint) (*domain.Application, error) {
	var app domain.Application
	err := r.db.
		Preload("Documents").
		Preload("User").
		Preload("Scheme").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindDocumentByID(id uint) (*domain.ApplicationDocument, error) {
	var doc domain.ApplicationDocument
	if err := r.db.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *applicationRepository) ListForUser(userID uint) ([]domain.Application, error) {
	var apps []domain.Application
	err := r.db.
		Preload("Documents").
		Preload("User").
		Preload("Scheme").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) ListAll(filters dto.ApplicationFilters) ([]domain.Application, error) {
	var apps []domain.Application

	q := r.db.
		Preload("Documents").
		Preload("User").
		Preload("Scheme").
		Order("created_at DESC")
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.SchemeID != 0 {
		q = q.Where("scheme_id = ?", filters.SchemeID)
	}

	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) Save(app *domain.Application) error {
	return r.db.Save(app).Error
}

func (r *applicationRepository) DeleteByID(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("application_id = ?", id).Delete(&domain.ApplicationDocument{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&domain.Application{}, id).Error
	})
}

func (r *applicationRepository) SchemeIDsForUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&domain.Application{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("scheme_id", &ids).Error
	return ids, err
}

func (r *applicationRepository) HasApplied(userID, schemeID uint) (bool, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).
		Where("user_id = ? AND scheme_id = ?", userID, schemeID).
		Count(&n).Error
	return n > 0, err
}

func (r *applicationRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).Count(&n).Error
	return n, err
}

func (r *applicationRepository) CountByStatus(statuses ...domain.ApplicationStatus) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).
		Where("status IN ?", statuses).
		Count(&n).Error
	return n, err
}
