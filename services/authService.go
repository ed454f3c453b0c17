package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore looks up operators for login. Narrowed to an interface so
// login can be tested without a database.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
}

type gormUserStore struct {
	db *gorm.DB
}

func (s gormUserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type AuthService interface {
	Login(input dtos.LoginInput) (*dtos.AuthResponse, error)
}

type authService struct {
	users UserStore
}

func NewAuthService(db *gorm.DB) AuthService {
	return &authService{users: gormUserStore{db: db}}
}

// Login checks operator credentials and issues a role-scoped token.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *authService) Login(input dtos.LoginInput) (*dtos.AuthResponse, error) {
	user, err := s.users.FindByUsername(input.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &dtos.AuthResponse{
		Message: "Login successful",
		Token:   token,
		Role:    user.Role,
	}, nil
}
