package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SchemeType string

const (
	SchemeTypeCentral SchemeType = "CENTRAL"
	SchemeTypeState   SchemeType = "STATE"
)

// SchemeCategories are the program categories exposed in the catalog filters.
var SchemeCategories = map[string]string{
	"AGRICULTURE":     "Agriculture & Rural Development",
	"EDUCATION":       "Education & Skill Development",
	"HEALTH":          "Health & Nutrition",
	"EMPLOYMENT":      "Employment & Livelihood",
	"HOUSING":         "Housing & Urban Development",
	"SOCIAL_SECURITY": "Social Security & Welfare",
	"WOMEN_CHILD":     "Women & Child Development",
	"FINANCIAL":       "Financial Services",
	"OTHER":           "Other",
}

func ValidSchemeType(t SchemeType) bool {
	return t == SchemeTypeCentral || t == SchemeTypeState
}

type Scheme struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(200);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	SchemeType  SchemeType `gorm:"type:varchar(10);not null" json:"scheme_type"`
	Category    string     `gorm:"type:varchar(20);not null" json:"category"`
	Ministry    string     `gorm:"type:varchar(100)" json:"ministry"`

	// Per-scheme application form definition.
	CustomFormFields datatypes.JSONMap `json:"custom_form_fields,omitempty"`
	FormTemplate     *string           `gorm:"type:varchar(50)" json:"form_template,omitempty"`

	// Eligibility predicates.
	IncomeGroups     datatypes.JSONSlice[string] `json:"income_groups"`
	ApplicableStates datatypes.JSONSlice[string] `json:"applicable_states"`
	AgeMin           *uint                       `json:"age_min,omitempty"`
	AgeMax           *uint                       `json:"age_max,omitempty"`
	GenderApplicable datatypes.JSONSlice[string] `json:"gender_applicable"`

	Benefits           string  `gorm:"type:text" json:"benefits"`
	EligibilityDetails string  `gorm:"type:text" json:"eligibility_details"`
	RequiredDocuments  string  `gorm:"type:text" json:"required_documents"`
	ApplicationProcess string  `gorm:"type:text" json:"application_process"`
	OfficialWebsite    *string `json:"official_website,omitempty"`
	HelplineNumber     *string `gorm:"type:varchar(20)" json:"helpline_number,omitempty"`

	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LaunchDate *time.Time `json:"launch_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	gorm.Model
}

// UserFavorite bookmarks a scheme for a user. One row per (user, scheme).
type UserFavorite struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:uidx_user_favorites_user_scheme" json:"user_id"`
	SchemeID uint      `gorm:"not null;uniqueIndex:uidx_user_favorites_user_scheme" json:"scheme_id"`
	AddedAt  time.Time `gorm:"autoCreateTime" json:"added_at"`
}
