package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
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

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
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

func TestCreateWithDocuments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	user := seedUser(t, db, "asha")
	scheme := seedScheme(t, db, "PM Scholarship", true)

	app := &domain.Application{
		UserID:        user.ID,
		SchemeID:      scheme.ID,
		ApplicationNo: "APP-2026-001",
		Status:        domain.StatusApplied,
	}
	docs := []domain.ApplicationDocument{
		{FieldName: "aadhaar_card", FilePath: "applications/user_1/scheme_1/aadhaar_card_APP-2026-001.pdf", OriginalFilename: "aadhaar.pdf", FileSize: 1024},
		{FieldName: "income_proof", FilePath: "applications/user_1/scheme_1/income_proof_APP-2026-001.pdf", OriginalFilename: "income.pdf", FileSize: 2048},
	}

	require.NoError(t, repo.CreateWithDocuments(app, docs))
	require.NotZero(t, app.ID)

	found, err := repo.FindByID(app.ID)
	require.NoError(t, err)
	assert.Equal(t, "APP-2026-001", found.ApplicationNo)
	assert.Len(t, found.Documents, 2)
	for _, d := range found.Documents {
		assert.Equal(t, app.ID, d.ApplicationID)
	}
	assert.Equal(t, "asha", found.User.Username)
	assert.Equal(t, "PM Scholarship", found.Scheme.Name)
}

func TestCreateWithDocuments_DuplicateApplicationNo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	user := seedUser(t, db, "asha")
	scheme := seedScheme(t, db, "PM Scholarship", true)

	first := &domain.Application{UserID: user.ID, SchemeID: scheme.ID, ApplicationNo: "APP-DUP", Status: domain.StatusApplied}
	require.NoError(t, repo.CreateWithDocuments(first, nil))

	second := &domain.Application{UserID: user.ID, SchemeID: scheme.ID, ApplicationNo: "APP-DUP", Status: domain.StatusApplied}
	err := repo.CreateWithDocuments(second, nil)
	require.Error(t, err)
	assert.True(t, helper.IsDuplicateKey(err))

	// The first submission is untouched.
	found, err := repo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "APP-DUP", found.ApplicationNo)
}

func TestListForUser_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	asha := seedUser(t, db, "asha")
	ravi := seedUser(t, db, "ravi")
	scheme := seedScheme(t, db, "PM Scholarship", true)

	for i, u := range []*domain.User{asha, asha, ravi} {
		app := &domain.Application{
			UserID:        u.ID,
			SchemeID:      scheme.ID,
			ApplicationNo: fmt.Sprintf("APP-%d", i),
			Status:        domain.StatusApplied,
		}
		require.NoError(t, repo.CreateWithDocuments(app, nil))
	}

	mine, err := repo.ListForUser(asha.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, app := range mine {
		assert.Equal(t, asha.ID, app.UserID)
	}
}

func TestListAll_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	user := seedUser(t, db, "asha")
	scholarship := seedScheme(t, db, "PM Scholarship", true)
	housing := seedScheme(t, db, "Awas Yojana", true)

	seed := []struct {
		no     string
		scheme uint
		status domain.ApplicationStatus
	}{
		{"APP-1", scholarship.ID, domain.StatusApplied},
		{"APP-2", scholarship.ID, domain.StatusApproved},
		{"APP-3", housing.ID, domain.StatusApproved},
	}
	for _, s := range seed {
		app := &domain.Application{UserID: user.ID, SchemeID: s.scheme, ApplicationNo: s.no, Status: s.status}
		require.NoError(t, repo.CreateWithDocuments(app, nil))
	}

	all, err := repo.ListAll(dto.ApplicationFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	approved, err := repo.ListAll(dto.ApplicationFilters{Status: string(domain.StatusApproved)})
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	housingOnly, err := repo.ListAll(dto.ApplicationFilters{SchemeID: housing.ID})
	require.NoError(t, err)
	require.Len(t, housingOnly, 1)
	assert.Equal(t, "APP-3", housingOnly[0].ApplicationNo)

	both, err := repo.ListAll(dto.ApplicationFilters{Status: string(domain.StatusApproved), SchemeID: scholarship.ID})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "APP-2", both[0].ApplicationNo)
}

func TestDeleteByID_RemovesDocuments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	user := seedUser(t, db, "asha")
	scheme := seedScheme(t, db, "PM Scholarship", true)

	app := &domain.Application{UserID: user.ID, SchemeID: scheme.ID, ApplicationNo: "APP-DEL", Status: domain.StatusApplied}
	docs := []domain.ApplicationDocument{
		{FieldName: "aadhaar_card", FilePath: "a.pdf", OriginalFilename: "a.pdf"},
	}
	require.NoError(t, repo.CreateWithDocuments(app, docs))

	require.NoError(t, repo.DeleteByID(app.ID))

	_, err := repo.FindByID(app.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Hard delete, not soft delete: the rows are really gone.
	var n int64
	require.NoError(t, db.Unscoped().Model(&domain.ApplicationDocument{}).Where("application_id = ?", app.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Unscoped().Model(&domain.Application{}).Where("id = ?", app.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSchemeIDsAndHasApplied(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	user := seedUser(t, db, "asha")
	scholarship := seedScheme(t, db, "PM Scholarship", true)
	housing := seedScheme(t, db, "Awas Yojana", true)

	app := &domain.Application{UserID: user.ID, SchemeID: scholarship.ID, ApplicationNo: "APP-1", Status: domain.StatusApplied}
	require.NoError(t, repo.CreateWithDocuments(app, nil))

	ids, err := repo.SchemeIDsForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{scholarship.ID}, ids)

	applied, err := repo.HasApplied(user.ID, scholarship.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.HasApplied(user.ID, housing.ID)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestCountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	user := seedUser(t, db, "asha")
	scheme := seedScheme(t, db, "PM Scholarship", true)

	for i, status := range []domain.ApplicationStatus{
		domain.StatusApplied,
		domain.StatusUnderReview,
		domain.StatusApproved,
		domain.StatusRejected,
	} {
		app := &domain.Application{UserID: user.ID, SchemeID: scheme.ID, ApplicationNo: fmt.Sprintf("APP-%d", i), Status: status}
		require.NoError(t, repo.CreateWithDocuments(app, nil))
	}

	total, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	pending, err := repo.CountByStatus(domain.StatusApplied, domain.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	approved, err := repo.CountByStatus(domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved)
}
