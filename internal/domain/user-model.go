package domain

import "gorm.io/gorm"

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// IncomeGroups are the eligibility categories a user can register under.
var IncomeGroups = map[string]string{
	"EWS":     "Economically Weaker Section",
	"LIG":     "Low Income Group",
	"MIG":     "Middle Income Group",
	"OBC":     "Other Backward Class",
	"SC":      "Scheduled Caste",
	"ST":      "Scheduled Tribe",
	"GENERAL": "General Category",
}

// StateCodes maps the two-letter state/UT code to its display name.
var StateCodes = map[string]string{
	"AN": "Andaman and Nicobar Islands",
	"AP": "Andhra Pradesh",
	"AR": "Arunachal Pradesh",
	"AS": "Assam",
	"BR": "Bihar",
	"CG": "Chhattisgarh",
	"CH": "Chandigarh",
	"DH": "Dadra and Nagar Haveli",
	"DD": "Daman and Diu",
	"DL": "Delhi",
	"GA": "Goa",
	"GJ": "Gujarat",
	"HR": "Haryana",
	"HP": "Himachal Pradesh",
	"JK": "Jammu and Kashmir",
	"JH": "Jharkhand",
	"KA": "Karnataka",
	"KL": "Kerala",
	"LD": "Lakshadweep",
	"MP": "Madhya Pradesh",
	"MH": "Maharashtra",
	"MN": "Manipur",
	"ML": "Meghalaya",
	"MZ": "Mizoram",
	"NL": "Nagaland",
	"OR": "Odisha",
	"PB": "Punjab",
	"PY": "Puducherry",
	"RJ": "Rajasthan",
	"SK": "Sikkim",
	"TN": "Tamil Nadu",
	"TS": "Telangana",
	"TR": "Tripura",
	"UP": "Uttar Pradesh",
	"UK": "Uttarakhand",
	"WB": "West Bengal",
}

func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	IncomeGroup  *string `gorm:"type:varchar(10)" json:"income_group,omitempty"`
	State        *string `gorm:"type:varchar(2)" json:"state,omitempty"`
	Age          *uint   `json:"age,omitempty"`
	Gender       *string `gorm:"type:varchar(10)" json:"gender,omitempty"`
	IsStaff      bool    `gorm:"default:false" json:"is_staff"`
	IsSuperuser  bool    `gorm:"default:false" json:"is_superuser"`
	Status       string  `gorm:"type:varchar(20);not null;default:active" json:"status"`
	gorm.Model
}
