package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
	"github.com/schemeseva/scheme-service/internal/helper/utils"
	"github.com/schemeseva/scheme-service/internal/interfaces"
	"github.com/schemeseva/scheme-service/internal/repository"
	"github.com/schemeseva/scheme-service/internal/storage"
)

type ApplicationService interface {
	Submit(caller dto.AuthContext, input dto.ApplicationSubmitInput) (*dto.ApplicationResponse, error)
	ListMine(caller dto.AuthContext) ([]dto.ApplicationResponse, error)
	Get(caller dto.AuthContext, id uint) (*dto.ApplicationResponse, error)

	// Document returns the document row and the absolute file path for
	// streaming, after the owner-or-staff gate.
	Document(caller dto.AuthContext, documentID uint) (*domain.ApplicationDocument, string, error)

	ListAll(caller dto.AuthContext, filters dto.ApplicationFilters) ([]dto.ApplicationResponse, error)
	Review(caller dto.AuthContext, id uint, input dto.ApplicationReviewInput) (*dto.ApplicationResponse, error)
}

type applicationService struct {
	repo       repository.ApplicationRepository
	schemeRepo repository.SchemeRepository
	store      interfaces.DocumentStore
	producer   interfaces.ProducerHandler
	baseURL    string
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	schemeRepo repository.SchemeRepository,
	store interfaces.DocumentStore,
	producer interfaces.ProducerHandler,
	baseURL string,
) ApplicationService {
	return &applicationService{
		repo:       repo,
		schemeRepo: schemeRepo,
		store:      store,
		producer:   producer,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Both the document field name and the application id are interpolated
// into the storage path, so they must never carry path syntax. The
// field name is restricted to a flat identifier.
var reDocumentField = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func (s *applicationService) Submit(caller dto.AuthContext, input dto.ApplicationSubmitInput) (*dto.ApplicationResponse, error) {
	applicationNo := strings.TrimSpace(input.ApplicationNo)
	if applicationNo == "" {
		return nil, apperr.Validation("application_id", "application_id is required")
	}
	if strings.ContainsAny(applicationNo, `/\`) || strings.Contains(applicationNo, "..") {
		return nil, apperr.Validation("application_id", "application_id must not contain path characters")
	}
	for _, f := range input.Files {
		if !reDocumentField.MatchString(f.FieldName) {
			return nil, apperr.Validation("field_name", "document field names may only contain letters, digits, '_' and '-'")
		}
	}

	schemeIDRaw := strings.TrimSpace(input.SchemeID)
	if schemeIDRaw == "" {
		return nil, apperr.Validation("scheme_id", "scheme_id is required")
	}
	schemeID, err := strconv.ParseUint(schemeIDRaw, 10, 32)
	if err != nil {
		return nil, apperr.Validation("scheme_id", "scheme_id must be a number")
	}

	scheme, err := s.schemeRepo.FindByID(uint(schemeID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: scheme %d", apperr.ErrNotFound, schemeID)
		}
		return nil, err
	}

	// Malformed form_data is tolerated on purpose: the submission goes
	// through with an empty object rather than being rejected.
	formData := datatypes.JSONMap{}
	if raw := strings.TrimSpace(input.FormData); raw != "" {
		if err := json.Unmarshal([]byte(raw), &formData); err != nil {
			log.Printf("application %s: unparseable form_data, storing empty object", applicationNo)
			formData = datatypes.JSONMap{}
		}
	}

	// Stage every file before touching the database so a failed write
	// aborts the submission with nothing persisted.
	staged := make([]*interfaces.StagedDocument, 0, len(input.Files))
	discardStaged := func() {
		for _, sd := range staged {
			s.store.Discard(sd)
		}
	}
	for _, f := range input.Files {
		sd, err := s.store.Stage(f.FieldName, f.Filename, f.Bytes)
		if err != nil {
			discardStaged()
			return nil, err
		}
		staged = append(staged, sd)
	}

	app := &domain.Application{
		UserID:        caller.UserID,
		SchemeID:      scheme.ID,
		ApplicationNo: applicationNo,
		Status:        domain.StatusApplied,
		FormData:      formData,
	}

	docs := make([]domain.ApplicationDocument, 0, len(staged))
	relPaths := make([]string, 0, len(staged))
	for _, sd := range staged {
		relPath := storage.DocumentPath(caller.UserID, scheme.ID, sd.FieldName, applicationNo, sd.OriginalFilename)
		relPaths = append(relPaths, relPath)
		docs = append(docs, domain.ApplicationDocument{
			FieldName:        sd.FieldName,
			FilePath:         relPath,
			OriginalFilename: sd.OriginalFilename,
			FileSize:         sd.Size,
		})
	}

	if err := s.repo.CreateWithDocuments(app, docs); err != nil {
		discardStaged()
		if helper.IsDuplicateKey(err) {
			return nil, apperr.ErrDuplicateApplicationID
		}
		return nil, err
	}

	// Rows are in; move the staged files into place. A rename failure
	// compensates by deleting the rows and every file already moved.
	for i, sd := range staged {
		if err := s.store.Commit(sd, relPaths[i]); err != nil {
			for j := 0; j < i; j++ {
				_ = s.store.Remove(relPaths[j])
			}
			for j := i; j < len(staged); j++ {
				s.store.Discard(staged[j])
			}
			if delErr := s.repo.DeleteByID(app.ID); delErr != nil {
				log.Printf("application %d: compensating delete failed: %v", app.ID, delErr)
			}
			return nil, err
		}
	}

	full, err := s.repo.FindByID(app.ID)
	if err != nil {
		return nil, err
	}

	if s.producer != nil {
		payload := fmt.Sprintf(
			`{"application_id":%q,"user_id":%d,"scheme_id":%d,"status":%q}`,
			full.ApplicationNo, full.UserID, full.SchemeID, full.Status,
		)
		_ = s.producer.PublishMessage([]byte("application.submitted"), []byte(payload))
	}

	return s.toResponse(full), nil
}

func (s *applicationService) ListMine(caller dto.AuthContext) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.ListForUser(caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(apps), nil
}

func (s *applicationService) Get(caller dto.AuthContext, id uint) (*dto.ApplicationResponse, error) {
	app, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: application %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	if !canView(caller, app) {
		return nil, apperr.ErrForbidden
	}
	return s.toResponse(app), nil
}

func (s *applicationService) Document(caller dto.AuthContext, documentID uint) (*domain.ApplicationDocument, string, error) {
	doc, err := s.repo.FindDocumentByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: document %d", apperr.ErrNotFound, documentID)
		}
		return nil, "", err
	}

	app, err := s.repo.FindByID(doc.ApplicationID)
	if err != nil {
		return nil, "", err
	}
	if !canView(caller, app) {
		return nil, "", apperr.ErrForbidden
	}

	abs, err := s.store.Resolve(doc.FilePath)
	if err != nil {
		return nil, "", err
	}
	return doc, abs, nil
}

func (s *applicationService) ListAll(caller dto.AuthContext, filters dto.ApplicationFilters) ([]dto.ApplicationResponse, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}
	if filters.Status != "" && !domain.ValidApplicationStatus(domain.ApplicationStatus(filters.Status)) {
		return nil, apperr.Validation("status", "unknown status filter")
	}
	apps, err := s.repo.ListAll(filters)
	if err != nil {
		return nil, err
	}
	return s.toResponses(apps), nil
}

func (s *applicationService) Review(caller dto.AuthContext, id uint, input dto.ApplicationReviewInput) (*dto.ApplicationResponse, error) {
	if !caller.Staff {
		return nil, apperr.ErrForbidden
	}

	app, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: application %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}

	// Status transitions are unconstrained: any status may follow any
	// other. Only membership in the enumeration is checked.
	if input.Status != nil {
		next := domain.ApplicationStatus(strings.TrimSpace(*input.Status))
		if !domain.ValidApplicationStatus(next) {
			return nil, apperr.Validation("status", "invalid status")
		}
		app.Status = next
	}
	if input.Remarks != nil {
		app.Remarks = input.Remarks
	}

	if err := s.repo.Save(app); err != nil {
		return nil, err
	}

	if s.producer != nil {
		payload := fmt.Sprintf(
			`{"application_id":%q,"user_id":%d,"status":%q,"reviewed_by":%d}`,
			app.ApplicationNo, app.UserID, app.Status, caller.UserID,
		)
		_ = s.producer.PublishMessage([]byte("application.status_changed"), []byte(payload))
	}

	return s.toResponse(app), nil
}

// canView is the single authorization gate for detail and download:
// the owning user or any staff caller.
func canView(caller dto.AuthContext, app *domain.Application) bool {
	return caller.Staff || caller.UserID == app.UserID
}

func (s *applicationService) toResponse(app *domain.Application) *dto.ApplicationResponse {
	docs := make([]dto.ApplicationDocumentResponse, 0, len(app.Documents))
	for _, d := range app.Documents {
		docs = append(docs, dto.ApplicationDocumentResponse{
			ID:               d.ID,
			FieldName:        d.FieldName,
			FilePath:         d.FilePath,
			FileURL:          fmt.Sprintf("%s/api/applications/documents/%d/download", s.baseURL, d.ID),
			OriginalFilename: d.OriginalFilename,
			FileSize:         d.FileSize,
			FileSizeDisplay:  utils.ByteCountDisplay(d.FileSize),
			UploadedAt:       d.CreatedAt.Format(time.RFC3339),
		})
	}

	formData := app.FormData
	if formData == nil {
		formData = datatypes.JSONMap{}
	}

	return &dto.ApplicationResponse{
		ID:            app.ID,
		ApplicationNo: app.ApplicationNo,
		UserID:        app.UserID,
		SchemeID:      app.SchemeID,
		Status:        string(app.Status),
		FormData:      formData,
		AppliedDate:   app.CreatedAt.Format(time.RFC3339),
		LastUpdated:   app.UpdatedAt.Format(time.RFC3339),
		Remarks:       app.Remarks,
		Documents:     docs,
		UserDetails: dto.ApplicationUserDetails{
			Username:  app.User.Username,
			FirstName: app.User.FirstName,
			LastName:  app.User.LastName,
			Email:     app.User.Email,
			Phone:     app.User.Phone,
		},
		SchemeDetails: dto.ApplicationSchemeDetails{
			Name:       app.Scheme.Name,
			Category:   app.Scheme.Category,
			SchemeType: string(app.Scheme.SchemeType),
		},
	}
}

func (s *applicationService) toResponses(apps []domain.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, *s.toResponse(&apps[i]))
	}
	return out
}
