package service

import (
	"context"
	"errors"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/middleware"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("Credenciais invalidas")
	ErrEmailTaken         = errors.New("e-mail ja cadastrado")
)

// AuthService issues and refreshes JWT pairs and handles self-registration.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)

	// Register creates a customer account. The role is always USER here;
	// staff accounts are created by admins through the user management API.
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error)
}

type authService struct {
	users      repository.UserRepository
	secret     string
	tokenTTL   time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, expirationHours, refreshHours int) AuthService {
	return &authService{
		users:      users,
		secret:     secret,
		tokenTTL:   time.Duration(expirationHours) * time.Hour,
		refreshTTL: time.Duration(refreshHours) * time.Hour,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.tokenPair(u)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	// Re-read the user so role changes and deactivations take effect on
	// the next refresh, not only at token expiry.
	u, err := s.users.FindByID(ctx, userID)
	if err != nil || !u.Active {
		return nil, ErrInvalidCredentials
	}
	return s.tokenPair(u)
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         model.RoleUser,
		Address:      req.Address,
		Complement:   req.Complement,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.tokenPair(u)
}

func (s *authService) tokenPair(u *model.User) (*dto.LoginResponse, error) {
	access, err := s.sign(u, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(u, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		User:         *userToResponse(u),
	}, nil
}

func (s *authService) sign(u *model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func userToResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       string(u.Role),
		Address:    u.Address,
		Complement: u.Complement,
		Active:     u.Active,
	}
}
