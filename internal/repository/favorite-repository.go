package repository

import (
	"github.com/schemeseva/scheme-service/internal/domain"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Add(userID, schemeID uint) error
	Remove(userID, schemeID uint) error
	Exists(userID, schemeID uint) (bool, error)
	SchemeIDsForUser(userID uint) ([]uint, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add is idempotent: bookmarking an already-bookmarked scheme is a no-op.
func (r *favoriteRepository) Add(userID, schemeID uint) error {
	fav := domain.UserFavorite{UserID: userID, SchemeID: schemeID}
	return r.db.Where("user_id = ? AND scheme_id = ?", userID, schemeID).FirstOrCreate(&fav).Error
}

func (r *favoriteRepository) Remove(userID, schemeID uint) error {
	return r.db.Where("user_id = ? AND scheme_id = ?", userID, schemeID).Delete(&domain.UserFavorite{}).Error
}

func (r *favoriteRepository) Exists(userID, schemeID uint) (bool, error) {
	var n int64
	err := r.db.Model(&domain.UserFavorite{}).
		Where("user_id = ? AND scheme_id = ?", userID, schemeID).
		Count(&n).Error
	return n > 0, err
}

func (r *favoriteRepository) SchemeIDsForUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&domain.UserFavorite{}).
		Where("user_id = ?", userID).
		Pluck("scheme_id", &ids).Error
	return ids, err
}
