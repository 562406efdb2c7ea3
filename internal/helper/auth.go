package helper

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/dto"
)

type Auth struct {
	Secret string
}

func SetupAuth(s string) Auth {
	return Auth{
		Secret: s,
	}
}

func (a Auth) GenerateToken(userID uint, username string, staff bool) (string, error) {
	if userID == 0 || username == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now().Unix()
	exp := time.Now().Add(24 * time.Hour).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"is_staff": staff,
		"iat":      now,
		"exp":      exp,
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}

	return tokenStr, nil
}

func (a Auth) VerifyToken(tokenString string) (dto.AuthContext, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthContext{}, errors.New("missing token")
	}

	// accept both "Bearer <token>" and "<token>"
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return dto.AuthContext{}, errors.New("invalid token format")
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		return dto.AuthContext{}, errors.New("token parse error")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return dto.AuthContext{}, errors.New("invalid token claims")
	}

	expAny, ok := claims["exp"]
	if !ok {
		return dto.AuthContext{}, errors.New("missing expiry")
	}
	expFloat, ok := expAny.(float64)
	if !ok {
		return dto.AuthContext{}, errors.New("invalid expiry type")
	}
	if float64(time.Now().Unix()) > expFloat {
		return dto.AuthContext{}, errors.New("token expired")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID == 0 {
		return dto.AuthContext{}, errors.New("invalid user_id claim")
	}
	username, _ := claims["username"].(string)
	staff, _ := claims["is_staff"].(bool)
	iat, _ := claims["iat"].(float64)

	return dto.AuthContext{
		UserID:   uint(userID),
		Username: username,
		Staff:    staff,
		Iat:      iat,
		Expiry:   expFloat,
	}, nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (dto.AuthContext, error) {
	u := ctx.Locals("auth")
	claims, ok := u.(dto.AuthContext)
	if !ok {
		return dto.AuthContext{}, errors.New("missing auth user in context")
	}
	return claims, nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword(
		[]byte(hashed),
		[]byte(plain),
	); err != nil {
		return errors.New("invalid username or password")
	}
	return nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

var (
	reUpper   = regexp.MustCompile(`[A-Z]`)
	reLower   = regexp.MustCompile(`[a-z]`)
	reDigit   = regexp.MustCompile(`[0-9]`)
	reSpecial = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
	reDigits  = regexp.MustCompile(`\D`)
)

// ValidateStrongPassword enforces the account password policy:
// at least 8 characters with upper, lower, digit and special.
func ValidateStrongPassword(password string) error {
	if len(password) < 8 {
		return apperr.Validation("password", "password must be at least 8 characters long")
	}
	if !reUpper.MatchString(password) {
		return apperr.Validation("password", "password must contain at least one uppercase letter")
	}
	if !reLower.MatchString(password) {
		return apperr.Validation("password", "password must contain at least one lowercase letter")
	}
	if !reDigit.MatchString(password) {
		return apperr.Validation("password", "password must contain at least one number")
	}
	if !reSpecial.MatchString(password) {
		return apperr.Validation("password", "password must contain at least one special character")
	}
	return nil
}

// NormalizePhone strips formatting and requires exactly 10 digits.
func NormalizePhone(phone string) (string, error) {
	digits := reDigits.ReplaceAllString(phone, "")
	if len(digits) != 10 {
		return "", apperr.Validation("phone", "phone number must be exactly 10 digits")
	}
	return digits, nil
}
