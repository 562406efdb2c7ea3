package repository

import (
	"errors"

	"github.com/schemeseva/scheme-service/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	SaveUser(user *domain.User) error
	FindUserByID(userID uint) (*domain.User, error)
	FindUserByUsername(username string) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserByPhone(phone string) (*domain.User, error)
	ListRegularUsers(search string) ([]domain.User, error)
	CountRegularUsers() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	return r.db.Save(user).Error
}

func (r *userRepository) FindUserByID(userID uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, userID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByUsername(username string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByPhone(phone string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ListRegularUsers returns non-staff accounts, newest first, optionally
// matched by name/email/username substring.
func (r *userRepository) ListRegularUsers(search string) ([]domain.User, error) {
	var users []domain.User
	q := r.db.Where("is_staff = ? AND is_superuser = ?", false, false).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR username LIKE ?",
			like, like, like, like,
		)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountRegularUsers() (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).
		Where("is_staff = ? AND is_superuser = ?", false, false).
		Count(&n).Error
	return n, err
}
