package services

import (
	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/repository"
)

type AdminService interface {
	Stats(caller dto.AuthContext) (*dto.AdminStatsResponse, error)
	ListUsers(caller dto.AuthContext, search string) ([]domain.User, error)
	GetUser(caller dto.AuthContext, userID uint) (*domain.User, error)
	UpdateUser(caller dto.AuthContext, userID uint, input dto.UpdateUserProfile) (*domain.User, error)
}

type adminService struct {
	userRepo   repository.UserRepository
	schemeRepo repository.SchemeRepository
	appRepo    repository.ApplicationRepository
	userSvc    UserService
}

func NewAdminService(
	userRepo repository.UserRepository,
	schemeRepo repository.SchemeRepository,
	appRepo repository.ApplicationRepository,
	userSvc UserService,
) AdminService {
	return &adminService{
		userRepo:   userRepo,
		schemeRepo: schemeRepo,
		appRepo:    appRepo,
		userSvc:    userSvc,
	}
}

func (s *adminService) Stats(caller dto.AuthContext) (*dto.AdminStatsResponse, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}

	totalSchemes, err := s.schemeRepo.Count()
	if err != nil {
		return nil, err
	}
	totalApps, err := s.appRepo.Count()
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.CountRegularUsers()
	if err != nil {
		return nil, err
	}
	pending, err := s.appRepo.CountByStatus(domain.StatusApplied, domain.StatusUnderReview)
	if err != nil {
		return nil, err
	}
	approved, err := s.appRepo.CountByStatus(domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	rejected, err := s.appRepo.CountByStatus(domain.StatusRejected)
	if err != nil {
		return nil, err
	}

	return &dto.AdminStatsResponse{
		TotalSchemes:         totalSchemes,
		TotalApplications:    totalApps,
		TotalUsers:           totalUsers,
		PendingApplications:  pending,
		ApprovedApplications: approved,
		RejectedApplications: rejected,
	}, nil
}

func (s *adminService) ListUsers(caller dto.AuthContext, search string) ([]domain.User, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}
	return s.userRepo.ListRegularUsers(search)
}

func (s *adminService) GetUser(caller dto.AuthContext, userID uint) (*domain.User, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}
	return s.userSvc.GetProfile(userID)
}

func (s *adminService) UpdateUser(caller dto.AuthContext, userID uint, input dto.UpdateUserProfile) (*domain.User, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}
	// Admin edits never rotate the user's password.
	input.Password = nil
	input.OldPassword = nil
	return s.userSvc.UpdateProfile(userID, input)
}
