package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/repository"
	"github.com/schemeseva/scheme-service/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Scheme{},
		&domain.UserFavorite{},
		&domain.Application{},
		&domain.ApplicationDocument{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, staff bool) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsStaff:      staff,
		Status:       "active",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedScheme(t *testing.T, db *gorm.DB, name string, active bool) *domain.Scheme {
	t.Helper()
	scheme := &domain.Scheme{
		Name:       name,
		SchemeType: domain.SchemeTypeCentral,
		Category:   "EDUCATION",
		IsActive:   active,
	}
	require.NoError(t, db.Create(scheme).Error)
	return scheme
}

func authFor(user *domain.User) dto.AuthContext {
	return dto.AuthContext{UserID: user.ID, Username: user.Username, Staff: user.IsStaff}
}

type appSvcFixture struct {
	svc       ApplicationService
	db        *gorm.DB
	mediaRoot string
}

func newAppSvcFixture(t *testing.T) *appSvcFixture {
	t.Helper()
	db := setupTestDB(t)
	mediaRoot := t.TempDir()
	store, err := storage.NewLocalStore(mediaRoot)
	require.NoError(t, err)

	appRepo := repository.NewApplicationRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	svc := NewApplicationService(appRepo, schemeRepo, store, nil, "http://localhost:3000")

	return &appSvcFixture{svc: svc, db: db, mediaRoot: mediaRoot}
}

func submitInput(scheme *domain.Scheme, applicationNo string) dto.ApplicationSubmitInput {
	return dto.ApplicationSubmitInput{
		SchemeID:      strconv.FormatUint(uint64(scheme.ID), 10),
		ApplicationNo: applicationNo,
		FormData:      `{"father_name":"Ram Kumar","annual_income":"120000"}`,
		Files: []dto.DocumentInput{
			{FieldName: "aadhaar_card", Filename: "aadhaar.pdf", Bytes: []byte("aadhaar pdf content")},
			{FieldName: "income_proof", Filename: "income.pdf", Bytes: []byte("income certificate")},
		},
	}
}

func TestSubmit_FullWorkflow(t *testing.T) {
	fx := newAppSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	input := submitInput(scheme, "APP-2026-001")

	resp, err := fx.svc.Submit(authFor(user), input)
	require.NoError(t, err)

	assert.Equal(t, "APP-2026-001", resp.ApplicationNo)
	assert.Equal(t, string(domain.StatusApplied), resp.Status)
	assert.Equal(t, "Ram Kumar", resp.FormData["father_name"])
	require.Len(t, resp.Documents, 2)

	// Every committed file is on disk at its recorded size, and the
	// download URL points at the document endpoint.
	for _, doc := range resp.Documents {
		abs := filepath.Join(fx.mediaRoot, filepath.FromSlash(doc.FilePath))
		info, err := os.Stat(abs)
		require.NoError(t, err, "document %s should be on disk", doc.FilePath)
		assert.Equal(t, doc.FileSize, info.Size())
		assert.Contains(t, doc.FileURL, "/api/applications/documents/")
	}

	// Nothing left behind in the staging area.
	entries, err := os.ReadDir(filepath.Join(fx.mediaRoot, ".staging"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmit_DuplicateApplicationNo(t *testing.T) {
	fx := newAppSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	first := submitInput(scheme, "APP-DUP")
	firstResp, err := fx.svc.Submit(authFor(user), first)
	require.NoError(t, err)

	second := submitInput(scheme, "APP-DUP")
	_, err = fx.svc.Submit(authFor(user), second)
	assert.ErrorIs(t, err, apperr.ErrDuplicateApplicationID)

	// First submission unaffected, its files still present.
	got, err := fx.svc.Get(authFor(user), firstResp.ID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 2)
	for _, doc := range got.Documents {
		assert.FileExists(t, filepath.Join(fx.mediaRoot, filepath.FromSlash(doc.FilePath)))
	}

	// The rejected submission's staged files were discarded.
	entries, err := os.ReadDir(filepath.Join(fx.mediaRoot, ".staging"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmit_MalformedFormData(t *testing.T) {
	fx := newAppSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	seedScheme(t, fx.db, "PM Scholarship", true)

	resp, err := fx.svc.Submit(authFor(user), dto.ApplicationSubmitInput{
		SchemeID:      "1",
		ApplicationNo: "APP-BAD-JSON",
		FormData:      `{not valid json`,
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.FormData)
	assert.Empty(t, resp.FormData)
}

func TestSubmit_ValidationAndNotFound(t *testing.T) {
	fx := newAppSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)

	_, err := fx.svc.Submit(authFor(user), dto.ApplicationSubmitInput{SchemeID: "1"})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "application_id", ve.Field)

	_, err = fx.svc.Submit(authFor(user), dto.ApplicationSubmitInput{ApplicationNo: "APP-1"})
	ve, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "scheme_id", ve.Field)

	_, err = fx.svc.Submit(authFor(user), dto.ApplicationSubmitInput{ApplicationNo: "APP-1", SchemeID: "abc"})
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)

	_, err = fx.svc.Submit(authFor(user), dto.ApplicationSubmitInput{ApplicationNo: "APP-1", SchemeID: "999"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubmit_RejectsPathCharactersInFieldName(t *testing.T) {
	fx := newAppSvcFixture(t)
	victim := seedUser(t, fx.db, "asha", false)
	attacker := seedUser(t, fx.db, "mallory", false)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	victimInput := submitInput(scheme, "APP-VICTIM")
	victimResp, err := fx.svc.Submit(authFor(victim), victimInput)
	require.NoError(t, err)
	victimPath := filepath.Join(fx.mediaRoot, filepath.FromSlash(victimResp.Documents[0].FilePath))
	original, err := os.ReadFile(victimPath)
	require.NoError(t, err)

	// A field name carrying traversal segments, combined with a fresh
	// application_id, would otherwise land exactly on the victim's
	// stored document.
	_, err = fx.svc.Submit(authFor(attacker), dto.ApplicationSubmitInput{
		SchemeID:      strconv.FormatUint(uint64(scheme.ID), 10),
		ApplicationNo: "card_APP-VICTIM",
		Files: []dto.DocumentInput{
			{
				FieldName: fmt.Sprintf("../../user_%d/scheme_%d/aadhaar", victim.ID, scheme.ID),
				Filename:  "x.pdf",
				Bytes:     []byte("ATTACKER CONTENT"),
			},
		},
	})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "field_name", ve.Field)

	// Victim's document is untouched and nothing was staged.
	got, err := os.ReadFile(victimPath)
	require.NoError(t, err)
	assert.Equal(t, original, got)
	entries, err := os.ReadDir(filepath.Join(fx.mediaRoot, ".staging"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Other path syntax in the field name is rejected the same way.
	for _, bad := range []string{"", "a/b", `a\b`, "..", "aadhaar card"} {
		_, err := fx.svc.Submit(authFor(attacker), dto.ApplicationSubmitInput{
			SchemeID:      strconv.FormatUint(uint64(scheme.ID), 10),
			ApplicationNo: "APP-FRESH",
			Files:         []dto.DocumentInput{{FieldName: bad, Filename: "x.pdf", Bytes: []byte("x")}},
		})
		_, ok := apperr.AsValidation(err)
		assert.True(t, ok, "field name %q should be rejected", bad)
	}
}

func TestSubmit_RejectsPathCharactersInApplicationNo(t *testing.T) {
	fx := newAppSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	for _, bad := range []string{"../APP-1", `APP\1`, "a/../b", "APP/1"} {
		input := submitInput(scheme, bad)
		_, err := fx.svc.Submit(authFor(user), input)
		ve, ok := apperr.AsValidation(err)
		require.True(t, ok, "application_id %q should be rejected", bad)
		assert.Equal(t, "application_id", ve.Field)
	}

	// Hyphenated identifiers remain valid.
	input := submitInput(scheme, "APP-2026-001")
	_, err := fx.svc.Submit(authFor(user), input)
	assert.NoError(t, err)
}

func TestGet_OwnerOrStaffOnly(t *testing.T) {
	fx := newAppSvcFixture(t)
	owner := seedUser(t, fx.db, "asha", false)
	other := seedUser(t, fx.db, "ravi", false)
	admin := seedUser(t, fx.db, "admin", true)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	input := submitInput(scheme, "APP-VIEW")
	resp, err := fx.svc.Submit(authFor(owner), input)
	require.NoError(t, err)

	_, err = fx.svc.Get(authFor(owner), resp.ID)
	assert.NoError(t, err)

	_, err = fx.svc.Get(authFor(other), resp.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = fx.svc.Get(authFor(admin), resp.ID)
	assert.NoError(t, err)

	_, err = fx.svc.Get(authFor(owner), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDocument_Access(t *testing.T) {
	fx := newAppSvcFixture(t)
	owner := seedUser(t, fx.db, "asha", false)
	other := seedUser(t, fx.db, "ravi", false)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	input := submitInput(scheme, "APP-DOC")
	resp, err := fx.svc.Submit(authFor(owner), input)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Documents)
	docID := resp.Documents[0].ID

	doc, abs, err := fx.svc.Document(authFor(owner), docID)
	require.NoError(t, err)
	assert.Equal(t, "aadhaar.pdf", doc.OriginalFilename)
	content, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, []byte("aadhaar pdf content"), content)

	_, _, err = fx.svc.Document(authFor(other), docID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, _, err = fx.svc.Document(authFor(owner), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListAll_StaffGate(t *testing.T) {
	fx := newAppSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	admin := seedUser(t, fx.db, "admin", true)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	input := submitInput(scheme, "APP-ALL")
	_, err := fx.svc.Submit(authFor(user), input)
	require.NoError(t, err)

	_, err = fx.svc.ListAll(authFor(user), dto.ApplicationFilters{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	apps, err := fx.svc.ListAll(authFor(admin), dto.ApplicationFilters{})
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	_, err = fx.svc.ListAll(authFor(admin), dto.ApplicationFilters{Status: "NOT_A_STATUS"})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestReview(t *testing.T) {
	fx := newAppSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	admin := seedUser(t, fx.db, "admin", true)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	input := submitInput(scheme, "APP-REV")
	resp, err := fx.svc.Submit(authFor(user), input)
	require.NoError(t, err)

	status := string(domain.StatusApproved)
	remarks := "verified and approved"
	reviewed, err := fx.svc.Review(authFor(admin), resp.ID, dto.ApplicationReviewInput{
		Status:  &status,
		Remarks: &remarks,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), reviewed.Status)
	require.NotNil(t, reviewed.Remarks)
	assert.Equal(t, remarks, *reviewed.Remarks)
	// The submission date never moves on review, but the update
	// timestamp does.
	assert.Equal(t, resp.AppliedDate, reviewed.AppliedDate)
	assert.GreaterOrEqual(t, reviewed.LastUpdated, resp.LastUpdated)
	var row domain.Application
	require.NoError(t, fx.db.First(&row, resp.ID).Error)
	assert.True(t, row.UpdatedAt.After(row.CreatedAt))

	// Any status can follow any other, including back to APPLIED.
	back := string(domain.StatusApplied)
	reviewed, err = fx.svc.Review(authFor(admin), resp.ID, dto.ApplicationReviewInput{Status: &back})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApplied), reviewed.Status)

	bad := "NOT_A_STATUS"
	_, err = fx.svc.Review(authFor(admin), resp.ID, dto.ApplicationReviewInput{Status: &bad})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	_, err = fx.svc.Review(authFor(user), resp.ID, dto.ApplicationReviewInput{Status: &status})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
