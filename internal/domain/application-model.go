package domain

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "APPLIED"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusOnHold      ApplicationStatus = "ON_HOLD"
)

func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusApproved, StatusRejected, StatusOnHold:
		return true
	}
	return false
}

// Application is a user's submitted request to be considered for a scheme.
// ApplicationNo is the caller-supplied globally unique identifier; it is
// the only idempotency guard against duplicate submissions. No uniqueness
// is enforced on (user, scheme): a user may apply to the same scheme more
// than once, matching the upstream system.
type Application struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	SchemeID      uint              `gorm:"not null;index" json:"scheme_id"`
	ApplicationNo string            `gorm:"column:application_id;type:varchar(100);uniqueIndex;not null" json:"application_id"`
	Status        ApplicationStatus `gorm:"type:varchar(20);not null;default:APPLIED" json:"status"`
	FormData      datatypes.JSONMap `json:"form_data"`
	Remarks       *string           `gorm:"type:text" json:"remarks,omitempty"`

	User      User                  `gorm:"foreignKey:UserID" json:"-"`
	Scheme    Scheme                `gorm:"foreignKey:SchemeID" json:"-"`
	Documents []ApplicationDocument `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:ApplicationID" json:"documents,omitempty"`
	gorm.Model
}

// ApplicationDocument is one uploaded supporting file. FilePath is
// relative to the media root; never updated after creation.
type ApplicationDocument struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	ApplicationID    uint   `gorm:"not null;index" json:"application_id"`
	FieldName        string `gorm:"type:varchar(100);not null" json:"field_name"`
	FilePath         string `gorm:"type:varchar(500);not null" json:"file_path"`
	OriginalFilename string `gorm:"type:varchar(255);not null" json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	gorm.Model
}
