package dto

type RegisterRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Phone           *string `json:"phone,omitempty"`
	IncomeGroup     *string `json:"income_group,omitempty"`
	State           *string `json:"state,omitempty"`
	Age             *uint   `json:"age,omitempty"`
	Gender          *string `json:"gender,omitempty"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string              `json:"message"`
	Token   string              `json:"token"`
	User    UserProfileResponse `json:"user"`
}

// AuthContext is the authenticated caller, decoded once from the token
// and passed explicitly into every service operation.
type AuthContext struct {
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	Staff    bool    `json:"is_staff"`
	Iat      float64 `json:"iat"`
	Expiry   float64 `json:"expiry"`
}
