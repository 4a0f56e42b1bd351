package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	gateway *database.Gateway
	tokens  *utils.TokenManager
}

func NewAuthService(gateway *database.Gateway, tokens *utils.TokenManager) *AuthService {
	return &AuthService{gateway: gateway, tokens: tokens}
}

// Login checks the credentials against the bcrypt hash and returns a signed
// token for the admin.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, invalid("", "username and password are required")
	}

	admin, err := s.gateway.GetAdminByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}
