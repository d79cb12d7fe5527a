package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"restopos/internal/config"
	"restopos/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrPINInvalido is returned for a wrong PIN. Handlers map it to 401.
var ErrPINInvalido = errors.New("PIN invalido")

// RolAdmin is the only role: whoever knows the shared PIN.
const RolAdmin = "admin"

type AuthService interface {
	LoginPIN(ctx context.Context, req dto.PinLoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

// LoginPIN checks the shared admin PIN and issues an access token. A bcrypt
// ADMIN_PIN_HASH takes precedence over the plain ADMIN_PIN.
func (s *authService) LoginPIN(_ context.Context, req dto.PinLoginRequest) (*dto.LoginResponse, error) {
	if !s.pinValido(req.PIN) {
		return nil, ErrPINInvalido
	}
	token, err := s.generateToken(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
	}, nil
}

func (s *authService) pinValido(pin string) bool {
	if s.cfg.AdminPINHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPINHash), []byte(pin)) == nil
	}
	if s.cfg.AdminPIN == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.AdminPIN), []byte(pin)) == 1
}

func (s *authService) generateToken(duration time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": "pin",
		"rol": RolAdmin,
		"exp": now.Add(duration).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
