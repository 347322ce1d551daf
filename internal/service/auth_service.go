package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/config"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
)

// AccessClaims структура claims токена доступа. Subject хранит id
// пользователя, им подписываются создаваемые ссылки.
type AccessClaims struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService интерфейс сервиса аутентификации
type AuthService interface {
	Authenticate(ctx context.Context, input *models.AuthenticateInput) (*models.AuthenticateResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      config.JWTConfig
}

// NewAuthService создаёт сервис аутентификации. Настройки JWT передаются
// явно, а не через глобальный синглтон.
func NewAuthService(userRepo repository.UserRepository, cfg config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Authenticate проверяет учётные данные и выдаёт подписанный HS256 токен.
func (s *authService) Authenticate(ctx context.Context, input *models.AuthenticateInput) (*models.AuthenticateResponse, error) {
	if input.Username == "" {
		return nil, apperr.New(apperr.Validation, "username must not be empty")
	}
	if input.Password == "" {
		return nil, apperr.New(apperr.Validation, "password must not be empty")
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.Auth, "invalid username or password")
		}
		return nil, err
	}

	if user.Password != input.Password {
		return nil, apperr.New(apperr.Auth, "invalid username or password")
	}

	now := time.Now()
	claims := &AccessClaims{
		Name:     user.FullName,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, "failed to sign access token", err)
	}

	return &models.AuthenticateResponse{
		User:        user,
		AccessToken: signed,
	}, nil
}
