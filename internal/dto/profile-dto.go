package dto

type UserProfileResponse struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone,omitempty"`
	IncomeGroup *string `json:"income_group,omitempty"`
	State       *string `json:"state,omitempty"`
	Age         *uint   `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// UpdateUserProfile is a PATCH payload: nil means "leave unchanged".
// Username, income_group and state are immutable after registration.
type UpdateUserProfile struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Age         *uint   `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Password    *string `json:"password,omitempty"`
	OldPassword *string `json:"old_password,omitempty"`
}
