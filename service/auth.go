package service

import (
	"errors"
	"fmt"

	"notes-api/cache"
	"notes-api/db"
	"notes-api/logger"
	"notes-api/models"
	"notes-api/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration and login, issuing signed tokens on
// success. Plaintext passwords are hashed before storage and never logged.
type AuthService struct {
	tokens *token.Provider
}

func NewAuthService(tokens *token.Provider) *AuthService {
	return &AuthService{tokens: tokens}
}

// Register creates an ordinary user and immediately authenticates it.
func (s *AuthService) Register(email, password string) (*models.AuthResponse, error) {
	return s.register(email, password, models.RoleUser)
}

// RegisterAdmin creates an administrator. Callers must already hold the
// administrator role; that gate lives at the route, not here.
func (s *AuthService) RegisterAdmin(email, password string) (*models.AuthResponse, error) {
	return s.register(email, password, models.RoleAdmin)
}

func (s *AuthService) register(email, password string, role models.Role) (*models.AuthResponse, error) {
	var taken int64
	if err := db.DB.Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, fmt.Errorf("%w: email is already taken", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: string(hash), Role: role}
	if err := db.DB.Create(user).Error; err != nil {
		return nil, err
	}

	evictUsers()
	return s.authResponse(user)
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error, so the response cannot be used to enumerate users.
func (s *AuthService) Login(email, password string) (*models.AuthResponse, error) {
	var user models.User
	err := db.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.authResponse(&user)
}

func (s *AuthService) authResponse(user *models.User) (*models.AuthResponse, error) {
	tok, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Token: tok,
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func evictUsers() {
	if err := cache.Delete(cache.KeyUsersAll); err != nil {
		logger.Warningf("evict users cache: %v", err)
	}
}
