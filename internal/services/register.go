package services

import (
	"errors"
	"strings"

	"project-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

type RegistrationRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterService interface {
	RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct {
	bcryptCost int
}

func NewRegisterService(bcryptCost int) *RegisterServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &RegisterServiceImpl{bcryptCost: bcryptCost}
}

// RegisterUser persists a new User with a one-way digest of the
// password. Email and username are unique; the first conflicting field
// wins the error message.
func (s *RegisterServiceImpl) RegisterUser(db *gorm.DB, req RegistrationRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Email:    email,
		Password: string(digest),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
