package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
	"github.com/schemeseva/scheme-service/internal/interfaces"
	"github.com/schemeseva/scheme-service/internal/repository"
)

type UserService interface {
	Register(input dto.RegisterRequest) (*domain.User, error)
	Login(input dto.UserLogin) (*domain.User, error)
	GetProfile(userID uint) (*domain.User, error)
	UpdateProfile(userID uint, input dto.UpdateUserProfile) (*domain.User, error)
}

type userService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	producer interfaces.ProducerHandler
}

func NewUserService(repo repository.UserRepository, producer interfaces.ProducerHandler, auth helper.Auth) UserService {
	return &userService{
		repo:     repo,
		auth:     auth,
		producer: producer,
	}
}

func (u *userService) Register(input dto.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	if username == "" {
		return nil, apperr.Validation("username", "username is required")
	}
	if email == "" {
		return nil, apperr.Validation("email", "email is required")
	}
	if err := helper.ValidateStrongPassword(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.PasswordConfirm {
		return nil, apperr.Validation("password_confirm", "passwords don't match")
	}

	if input.IncomeGroup != nil {
		if _, ok := domain.IncomeGroups[strings.ToUpper(*input.IncomeGroup)]; !ok {
			return nil, apperr.Validation("income_group", "unknown income group")
		}
	}
	if input.State != nil {
		if _, ok := domain.StateCodes[strings.ToUpper(*input.State)]; !ok {
			return nil, apperr.Validation("state", "unknown state code")
		}
	}
	if input.Gender != nil && !domain.ValidGender(strings.ToUpper(*input.Gender)) {
		return nil, apperr.Validation("gender", "unknown gender")
	}

	var phone *string
	if input.Phone != nil && strings.TrimSpace(*input.Phone) != "" {
		normalized, err := helper.NormalizePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		if existing, err := u.repo.FindUserByPhone(normalized); err == nil && existing != nil {
			return nil, apperr.Validation("phone", "this phone number is already registered")
		}
		phone = &normalized
	}

	if existing, err := u.repo.FindUserByUsername(username); err == nil && existing != nil {
		return nil, apperr.Validation("username", "this username is already taken")
	}
	if existing, err := u.repo.FindUserByEmail(email); err == nil && existing != nil {
		return nil, apperr.Validation("email", "an account with this email already exists")
	}

	hashed, err := helper.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	newUser := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		Age:          input.Age,
		Status:       "active",
	}
	if input.IncomeGroup != nil {
		ig := strings.ToUpper(*input.IncomeGroup)
		newUser.IncomeGroup = &ig
	}
	if input.State != nil {
		st := strings.ToUpper(*input.State)
		newUser.State = &st
	}
	if input.Gender != nil {
		g := strings.ToUpper(*input.Gender)
		newUser.Gender = &g
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, apperr.Validation("username", "this username is already taken")
		}
		return nil, err
	}

	if u.producer != nil {
		payload := fmt.Sprintf(`{"user_id":%d,"username":%q,"email":%q}`, usr.ID, usr.Username, usr.Email)
		_ = u.producer.PublishMessage([]byte("user.registered"), []byte(payload))
	}

	return usr, nil
}

// Login reports distinct failures for an unknown username, a wrong
// password and a deactivated account.
func (u *userService) Login(input dto.UserLogin) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password

	if username == "" || password == "" {
		return nil, apperr.Validation("", "please provide both username and password")
	}

	user, err := u.repo.FindUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("username", "login failed, please check your username")
		}
		return nil, err
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, apperr.Validation("password", "invalid password")
	}

	if user.Status != "" && user.Status != "active" {
		return nil, apperr.Validation("", "your account has been deactivated")
	}

	return user, nil
}

func (u *userService) GetProfile(userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, errors.New("invalid user id")
	}
	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

func (u *userService) UpdateProfile(userID uint, input dto.UpdateUserProfile) (*domain.User, error) {
	user, err := u.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, apperr.Validation("email", "email cannot be empty")
		}
		if existing, err := u.repo.FindUserByEmail(email); err == nil && existing != nil && existing.ID != userID {
			return nil, apperr.Validation("email", "an account with this email already exists")
		}
		user.Email = email
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		normalized, err := helper.NormalizePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		if existing, err := u.repo.FindUserByPhone(normalized); err == nil && existing != nil && existing.ID != userID {
			return nil, apperr.Validation("phone", "this phone number is already registered to another account")
		}
		user.Phone = &normalized
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Gender != nil {
		g := strings.ToUpper(*input.Gender)
		if !domain.ValidGender(g) {
			return nil, apperr.Validation("gender", "unknown gender")
		}
		user.Gender = &g
	}

	// Password change requires the current password.
	if input.Password != nil && *input.Password != "" {
		if input.OldPassword == nil || *input.OldPassword == "" {
			return nil, apperr.Validation("old_password", "current password is required to change password")
		}
		if err := u.auth.VerifyPassword(*input.OldPassword, user.PasswordHash); err != nil {
			return nil, apperr.Validation("old_password", "current password is incorrect")
		}
		if err := helper.ValidateStrongPassword(*input.Password); err != nil {
			return nil, err
		}
		hashed, err := helper.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
