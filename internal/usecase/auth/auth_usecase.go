package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/logger"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

// RegisterRequest represents a new account
type RegisterRequest struct {
	Email    string        `json:"email" binding:"required,email,max=255"`
	Password string        `json:"password" binding:"required,min=8,max=72"`
	Name     string        `json:"name" binding:"required,min=2,max=100"`
	Age      int           `json:"age" binding:"required,min=18,max=100"`
	Gender   domain.Gender `json:"gender" binding:"required,gender"`
	Religion *string       `json:"religion" binding:"omitempty,max=64"`
}

// LoginRequest represents email/password credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ClientInfo describes where a session was opened from.
type ClientInfo struct {
	DeviceInfo string
	IPAddress  string
}

// AuthResponse represents an issued access token
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

// Register creates an account and opens its first session.
func (uc *AuthUseCase) Register(ctx context.Context, req *RegisterRequest, client ClientInfo) (*AuthResponse, error) {
	user := &domain.User{
		Email:    normalizeEmail(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Age:      req.Age,
		Gender:   req.Gender,
		Religion: req.Religion,
		Role:     domain.RoleUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID)
	return uc.issue(ctx, user, client)
}

// Login verifies credentials and opens a new session.
func (uc *AuthUseCase) Login(ctx context.Context, req *LoginRequest, client ClientInfo) (*AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.issue(ctx, user, client)
}

// Logout deletes user session
func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	return uc.sessionRepo.DeleteByToken(ctx, hashToken(tokenString))
}

// VerifyToken checks the JWT signature and that its session is still open.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (*domain.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return uc.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, domain.ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	session, err := uc.sessionRepo.GetByToken(ctx, hashToken(tokenString))
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrInvalidToken
	}
	if session.IsExpired() {
		return nil, domain.ErrSessionExpired
	}

	return &domain.Actor{UserID: userID, Role: domain.Role(role)}, nil
}

// Me returns the account behind actor.
func (uc *AuthUseCase) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, actor.UserID)
}

func (uc *AuthUseCase) issue(ctx context.Context, user *domain.User, client ClientInfo) (*AuthResponse, error) {
	now := time.Now()
	expiresAt := now.Add(uc.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"jti":     uuid.NewString(),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:     user.ID,
		Token:      hashToken(tokenString),
		DeviceInfo: optional(client.DeviceInfo),
		IPAddress:  optional(client.IPAddress),
		ExpiresAt:  expiresAt,
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
