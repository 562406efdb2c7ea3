package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/repository"
)

type schemeSvcFixture struct {
	svc SchemeService
	db  *gorm.DB
}

func newSchemeSvcFixture(t *testing.T) *schemeSvcFixture {
	t.Helper()
	db := setupTestDB(t)
	svc := NewSchemeService(
		repository.NewSchemeRepository(db),
		repository.NewFavoriteRepository(db),
		repository.NewApplicationRepository(db),
	)
	return &schemeSvcFixture{svc: svc, db: db}
}

func TestSchemeList_ActiveOnly(t *testing.T) {
	fx := newSchemeSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	seedScheme(t, fx.db, "Active Scheme", true)
	seedScheme(t, fx.db, "Retired Scheme", false)

	schemes, err := fx.svc.List(authFor(user), dto.SchemeFilters{})
	require.NoError(t, err)
	require.Len(t, schemes, 1)
	assert.Equal(t, "Active Scheme", schemes[0].Name)
}

func TestSchemeList_ExcludesApplied(t *testing.T) {
	fx := newSchemeSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	applied := seedScheme(t, fx.db, "Already Applied", true)
	seedScheme(t, fx.db, "Still Open", true)

	app := &domain.Application{
		UserID:        user.ID,
		SchemeID:      applied.ID,
		ApplicationNo: "APP-1",
		Status:        domain.StatusApplied,
	}
	require.NoError(t, fx.db.Create(app).Error)

	schemes, err := fx.svc.List(authFor(user), dto.SchemeFilters{})
	require.NoError(t, err)
	require.Len(t, schemes, 1)
	assert.Equal(t, "Still Open", schemes[0].Name)

	// The detail endpoint still serves it, flagged as applied.
	detail, err := fx.svc.Get(authFor(user), applied.ID)
	require.NoError(t, err)
	assert.True(t, detail.HasApplied)
}

func TestSchemeList_Filters(t *testing.T) {
	fx := newSchemeSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)

	scholarship := &domain.Scheme{Name: "Merit Scholarship", SchemeType: domain.SchemeTypeCentral, Category: "EDUCATION", IsActive: true}
	housing := &domain.Scheme{Name: "Awas Yojana", SchemeType: domain.SchemeTypeState, Category: "HOUSING", IsActive: true}
	require.NoError(t, fx.db.Create(scholarship).Error)
	require.NoError(t, fx.db.Create(housing).Error)

	byCategory, err := fx.svc.List(authFor(user), dto.SchemeFilters{Category: "HOUSING"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Awas Yojana", byCategory[0].Name)

	byType, err := fx.svc.List(authFor(user), dto.SchemeFilters{SchemeType: "CENTRAL"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Merit Scholarship", byType[0].Name)

	bySearch, err := fx.svc.List(authFor(user), dto.SchemeFilters{Search: "yojana"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Awas Yojana", bySearch[0].Name)
}

func TestFavorites(t *testing.T) {
	fx := newSchemeSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	scheme := seedScheme(t, fx.db, "PM Scholarship", true)

	require.NoError(t, fx.svc.AddFavorite(authFor(user), scheme.ID))
	// Favoriting twice is idempotent, not an error.
	require.NoError(t, fx.svc.AddFavorite(authFor(user), scheme.ID))

	favs, err := fx.svc.ListFavorites(authFor(user))
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.True(t, favs[0].IsFavorite)

	require.NoError(t, fx.svc.RemoveFavorite(authFor(user), scheme.ID))
	favs, err = fx.svc.ListFavorites(authFor(user))
	require.NoError(t, err)
	assert.Empty(t, favs)

	err = fx.svc.AddFavorite(authFor(user), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSchemeAdmin_StaffGate(t *testing.T) {
	fx := newSchemeSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	admin := seedUser(t, fx.db, "admin", true)
	seedScheme(t, fx.db, "Active Scheme", true)
	seedScheme(t, fx.db, "Retired Scheme", false)

	_, err := fx.svc.ListAllAdmin(authFor(user))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	all, err := fx.svc.ListAllAdmin(authFor(admin))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSchemeCreate(t *testing.T) {
	fx := newSchemeSvcFixture(t)
	user := seedUser(t, fx.db, "asha", false)
	admin := seedUser(t, fx.db, "admin", true)

	name := "New Scheme"
	schemeType := "CENTRAL"
	category := "HEALTH"
	input := dto.SchemeInput{Name: &name, SchemeType: &schemeType, Category: &category}

	_, err := fx.svc.Create(authFor(user), input)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	created, err := fx.svc.Create(authFor(admin), input)
	require.NoError(t, err)
	assert.Equal(t, "New Scheme", created.Name)
	assert.True(t, created.IsActive)

	badType := "REGIONAL"
	_, err = fx.svc.Create(authFor(admin), dto.SchemeInput{Name: &name, SchemeType: &badType, Category: &category})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	badCategory := "UNKNOWN"
	_, err = fx.svc.Create(authFor(admin), dto.SchemeInput{Name: &name, SchemeType: &schemeType, Category: &badCategory})
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestSchemeUpdateAndDelete(t *testing.T) {
	fx := newSchemeSvcFixture(t)
	admin := seedUser(t, fx.db, "admin", true)
	scheme := seedScheme(t, fx.db, "Old Name", true)

	newName := "Renamed Scheme"
	inactive := false
	updated, err := fx.svc.Update(authFor(admin), scheme.ID, dto.SchemeInput{Name: &newName, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Scheme", updated.Name)
	assert.False(t, updated.IsActive)
	// Untouched fields keep their values.
	assert.Equal(t, "EDUCATION", updated.Category)

	require.NoError(t, fx.svc.Delete(authFor(admin), scheme.ID))
	_, err = fx.svc.Get(authFor(admin), scheme.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = fx.svc.Delete(authFor(admin), scheme.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
