package services

import (
	"errors"
	"strings"

	"project-hub/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown email and wrong password so
// responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	LoginUser(db *gorm.DB, email, password string) (*models.User, error)
}

type AuthServiceImpl struct{}

func NewAuthService() *AuthServiceImpl {
	return &AuthServiceImpl{}
}

func VerifyPassword(digest, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plainPassword)) == nil
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
