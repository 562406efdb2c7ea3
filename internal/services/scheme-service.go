package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/repository"
)

type SchemeService interface {
	// Catalog (user-facing)
	List(caller dto.AuthContext, filters dto.SchemeFilters) ([]dto.SchemeResponse, error)
	Get(caller dto.AuthContext, schemeID uint) (*dto.SchemeResponse, error)

	// Favorites
	AddFavorite(caller dto.AuthContext, schemeID uint) error
	RemoveFavorite(caller dto.AuthContext, schemeID uint) error
	ListFavorites(caller dto.AuthContext) ([]dto.SchemeResponse, error)

	// Admin
	ListAllAdmin(caller dto.AuthContext) ([]dto.SchemeResponse, error)
	Create(caller dto.AuthContext, input dto.SchemeInput) (*dto.SchemeResponse, error)
	Update(caller dto.AuthContext, schemeID uint, input dto.SchemeInput) (*dto.SchemeResponse, error)
	Delete(caller dto.AuthContext, schemeID uint) error
}

type schemeService struct {
	repo    repository.SchemeRepository
	favRepo repository.FavoriteRepository
	appRepo repository.ApplicationRepository
}

func NewSchemeService(
	repo repository.SchemeRepository,
	favRepo repository.FavoriteRepository,
	appRepo repository.ApplicationRepository,
) SchemeService {
	return &schemeService{
		repo:    repo,
		favRepo: favRepo,
		appRepo: appRepo,
	}
}

// List returns active schemes the caller has not yet applied to.
// Inactive schemes never appear here; admins see them via ListAllAdmin.
func (s *schemeService) List(caller dto.AuthContext, filters dto.SchemeFilters) ([]dto.SchemeResponse, error) {
	appliedIDs, err := s.appRepo.SchemeIDsForUser(caller.UserID)
	if err != nil {
		return nil, err
	}

	schemes, err := s.repo.ListActive(filters, appliedIDs)
	if err != nil {
		return nil, err
	}
	return s.toResponses(caller, schemes)
}

func (s *schemeService) Get(caller dto.AuthContext, schemeID uint) (*dto.SchemeResponse, error) {
	scheme, err := s.findScheme(schemeID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(caller, scheme)
}

func (s *schemeService) AddFavorite(caller dto.AuthContext, schemeID uint) error {
	if _, err := s.findScheme(schemeID); err != nil {
		return err
	}
	return s.favRepo.Add(caller.UserID, schemeID)
}

func (s *schemeService) RemoveFavorite(caller dto.AuthContext, schemeID uint) error {
	if _, err := s.findScheme(schemeID); err != nil {
		return err
	}
	return s.favRepo.Remove(caller.UserID, schemeID)
}

func (s *schemeService) ListFavorites(caller dto.AuthContext) ([]dto.SchemeResponse, error) {
	ids, err := s.favRepo.SchemeIDsForUser(caller.UserID)
	if err != nil {
		return nil, err
	}
	schemes, err := s.repo.ListByIDs(ids, true)
	if err != nil {
		return nil, err
	}
	return s.toResponses(caller, schemes)
}

func (s *schemeService) ListAllAdmin(caller dto.AuthContext) ([]dto.SchemeResponse, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}
	schemes, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	return s.toResponses(caller, schemes)
}

func (s *schemeService) Create(caller dto.AuthContext, input dto.SchemeInput) (*dto.SchemeResponse, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	if input.SchemeType == nil || !domain.ValidSchemeType(domain.SchemeType(*input.SchemeType)) {
		return nil, apperr.Validation("scheme_type", "scheme_type must be CENTRAL or STATE")
	}
	if input.Category == nil {
		return nil, apperr.Validation("category", "category is required")
	}
	if _, ok := domain.SchemeCategories[*input.Category]; !ok {
		return nil, apperr.Validation("category", "unknown category")
	}

	scheme := &domain.Scheme{IsActive: true}
	applySchemeInput(scheme, input)

	if err := s.repo.Create(scheme); err != nil {
		return nil, err
	}
	return s.toResponse(caller, scheme)
}

func (s *schemeService) Update(caller dto.AuthContext, schemeID uint, input dto.SchemeInput) (*dto.SchemeResponse, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}
	scheme, err := s.findScheme(schemeID)
	if err != nil {
		return nil, err
	}

	if input.SchemeType != nil && !domain.ValidSchemeType(domain.SchemeType(*input.SchemeType)) {
		return nil, apperr.Validation("scheme_type", "scheme_type must be CENTRAL or STATE")
	}
	if input.Category != nil {
		if _, ok := domain.SchemeCategories[*input.Category]; !ok {
			return nil, apperr.Validation("category", "unknown category")
		}
	}

	applySchemeInput(scheme, input)
	if err := s.repo.Save(scheme); err != nil {
		return nil, err
	}
	return s.toResponse(caller, scheme)
}

func (s *schemeService) Delete(caller dto.AuthContext, schemeID uint) error {
	if !caller.Staff {
		return apperr.ErrForbidden
	}
	if _, err := s.findScheme(schemeID); err != nil {
		return err
	}
	return s.repo.Delete(schemeID)
}

func (s *schemeService) findScheme(schemeID uint) (*domain.Scheme, error) {
	scheme, err := s.repo.FindByID(schemeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: scheme %d", apperr.ErrNotFound, schemeID)
		}
		return nil, err
	}
	return scheme, nil
}

func applySchemeInput(scheme *domain.Scheme, input dto.SchemeInput) {
	if input.Name != nil {
		scheme.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		scheme.Description = *input.Description
	}
	if input.SchemeType != nil {
		scheme.SchemeType = domain.SchemeType(*input.SchemeType)
	}
	if input.Category != nil {
		scheme.Category = *input.Category
	}
	if input.Ministry != nil {
		scheme.Ministry = *input.Ministry
	}
	if input.CustomFormFields != nil {
		scheme.CustomFormFields = input.CustomFormFields
	}
	if input.FormTemplate != nil {
		scheme.FormTemplate = input.FormTemplate
	}
	if input.IncomeGroups != nil {
		scheme.IncomeGroups = input.IncomeGroups
	}
	if input.ApplicableStates != nil {
		scheme.ApplicableStates = input.ApplicableStates
	}
	if input.AgeMin != nil {
		scheme.AgeMin = input.AgeMin
	}
	if input.AgeMax != nil {
		scheme.AgeMax = input.AgeMax
	}
	if input.GenderApplicable != nil {
		scheme.GenderApplicable = input.GenderApplicable
	}
	if input.Benefits != nil {
		scheme.Benefits = *input.Benefits
	}
	if input.EligibilityDetails != nil {
		scheme.EligibilityDetails = *input.EligibilityDetails
	}
	if input.RequiredDocuments != nil {
		scheme.RequiredDocuments = *input.RequiredDocuments
	}
	if input.ApplicationProcess != nil {
		scheme.ApplicationProcess = *input.ApplicationProcess
	}
	if input.OfficialWebsite != nil {
		scheme.OfficialWebsite = input.OfficialWebsite
	}
	if input.HelplineNumber != nil {
		scheme.HelplineNumber = input.HelplineNumber
	}
	if input.IsActive != nil {
		scheme.IsActive = *input.IsActive
	}
}

func (s *schemeService) toResponse(caller dto.AuthContext, scheme *domain.Scheme) (*dto.SchemeResponse, error) {
	isFav, err := s.favRepo.Exists(caller.UserID, scheme.ID)
	if err != nil {
		return nil, err
	}
	hasApplied, err := s.appRepo.HasApplied(caller.UserID, scheme.ID)
	if err != nil {
		return nil, err
	}

	return &dto.SchemeResponse{
		ID:               scheme.ID,
		Name:             scheme.Name,
		Description:      scheme.Description,
		SchemeType:       string(scheme.SchemeType),
		Category:         scheme.Category,
		Ministry:         scheme.Ministry,
		CustomFormFields: scheme.CustomFormFields,
		FormTemplate:     scheme.FormTemplate,
		IncomeGroups:     scheme.IncomeGroups,
		ApplicableStates: scheme.ApplicableStates,
		AgeMin:           scheme.AgeMin,
		AgeMax:           scheme.AgeMax,
		GenderApplicable: scheme.GenderApplicable,
		Benefits:         scheme.Benefits,
		EligibilityDetails: scheme.EligibilityDetails,
		RequiredDocuments:  scheme.RequiredDocuments,
		ApplicationProcess: scheme.ApplicationProcess,
		OfficialWebsite:    scheme.OfficialWebsite,
		HelplineNumber:     scheme.HelplineNumber,
		IsActive:           scheme.IsActive,
		CreatedAt:          scheme.CreatedAt.Format(time.RFC3339),
		IsFavorite:         isFav,
		HasApplied:         hasApplied,
	}, nil
}

func (s *schemeService) toResponses(caller dto.AuthContext, schemes []domain.Scheme) ([]dto.SchemeResponse, error) {
	out := make([]dto.SchemeResponse, 0, len(schemes))
	for i := range schemes {
		resp, err := s.toResponse(caller, &schemes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}
