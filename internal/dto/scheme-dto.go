package dto

import "gorm.io/datatypes"

// SchemeInput is the admin create/update payload. On update, nil
// pointer fields are left unchanged.
type SchemeInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	SchemeType  *string `json:"scheme_type,omitempty"`
	Category    *string `json:"category,omitempty"`
	Ministry    *string `json:"ministry,omitempty"`

	CustomFormFields datatypes.JSONMap `json:"custom_form_fields,omitempty"`
	FormTemplate     *string           `json:"form_template,omitempty"`

	IncomeGroups     []string `json:"income_groups,omitempty"`
	ApplicableStates []string `json:"applicable_states,omitempty"`
	AgeMin           *uint    `json:"age_min,omitempty"`
	AgeMax           *uint    `json:"age_max,omitempty"`
	GenderApplicable []string `json:"gender_applicable,omitempty"`

	Benefits           *string `json:"benefits,omitempty"`
	EligibilityDetails *string `json:"eligibility_details,omitempty"`
	RequiredDocuments  *string `json:"required_documents,omitempty"`
	ApplicationProcess *string `json:"application_process,omitempty"`
	OfficialWebsite    *string `json:"official_website,omitempty"`
	HelplineNumber     *string `json:"helpline_number,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
}

type SchemeFilters struct {
	Category   string
	SchemeType string
	Search     string
}

type SchemeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SchemeType  string `json:"scheme_type"`
	Category    string `json:"category"`
	Ministry    string `json:"ministry"`

	CustomFormFields datatypes.JSONMap `json:"custom_form_fields,omitempty"`
	FormTemplate     *string           `json:"form_template,omitempty"`

	IncomeGroups     []string `json:"income_groups"`
	ApplicableStates []string `json:"applicable_states"`
	AgeMin           *uint    `json:"age_min,omitempty"`
	AgeMax           *uint    `json:"age_max,omitempty"`
	GenderApplicable []string `json:"gender_applicable"`

	Benefits           string  `json:"benefits"`
	EligibilityDetails string  `json:"eligibility_details"`
	RequiredDocuments  string  `json:"required_documents"`
	ApplicationProcess string  `json:"application_process"`
	OfficialWebsite    *string `json:"official_website,omitempty"`
	HelplineNumber     *string `json:"helpline_number,omitempty"`

	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	IsFavorite bool   `json:"is_favorite"`
	HasApplied bool   `json:"has_applied"`
}
