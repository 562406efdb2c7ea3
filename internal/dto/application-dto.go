package dto

import "gorm.io/datatypes"

// DocumentInput is one file part of the multipart submission, already
// read off the wire by the handler.
type DocumentInput struct {
	FieldName string
	Filename  string
	Bytes     []byte
}

// ApplicationSubmitInput carries the partitioned multipart request:
// scalar form fields as strings, file parts as DocumentInput.
type ApplicationSubmitInput struct {
	SchemeID      string
	ApplicationNo string
	FormData      string
	Files         []DocumentInput
}

type ApplicationFilters struct {
	Status   string
	SchemeID uint
}

// ApplicationReviewInput is the admin PATCH payload; nil fields are
// left unchanged.
type ApplicationReviewInput struct {
	Status  *string `json:"status,omitempty"`
	Remarks *string `json:"remarks,omitempty"`
}

type ApplicationDocumentResponse struct {
	ID               uint   `json:"id"`
	FieldName        string `json:"field_name"`
	FilePath         string `json:"file_path"`
	FileURL          string `json:"file_url"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	FileSizeDisplay  string `json:"file_size_display"`
	UploadedAt       string `json:"uploaded_at"`
}

type ApplicationUserDetails struct {
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

type ApplicationSchemeDetails struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	SchemeType string `json:"scheme_type"`
}

type ApplicationResponse struct {
	ID            uint                          `json:"id"`
	ApplicationNo string                        `json:"application_id"`
	UserID        uint                          `json:"user"`
	SchemeID      uint                          `json:"scheme"`
	Status        string                        `json:"status"`
	FormData      datatypes.JSONMap             `json:"form_data"`
	AppliedDate   string                        `json:"applied_date"`
	LastUpdated   string                        `json:"last_updated"`
	Remarks       *string                       `json:"remarks,omitempty"`
	Documents     []ApplicationDocumentResponse `json:"documents"`
	UserDetails   ApplicationUserDetails        `json:"user_details"`
	SchemeDetails ApplicationSchemeDetails      `json:"scheme_details"`
}
