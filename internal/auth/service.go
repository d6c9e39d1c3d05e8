package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

// Claims are the JWT claims issued on login.
type Claims struct {
	UserID uuid.UUID      `json:"uid"`
	Email  string         `json:"email"`
	Role   workflows.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service provides authentication and account management.
type Service struct {
	db            *gorm.DB
	logger        *zap.Logger
	jwtSecret     []byte
	tokenLifetime time.Duration
	resetTokenTTL time.Duration
	bcryptCost    int
}

type ServiceConfig struct {
	JWTSecret     string
	TokenLifetime time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int
}

func NewService(db *gorm.DB, cfg ServiceConfig, logger *zap.Logger) *Service {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		db:            db,
		logger:        logger,
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenLifetime: cfg.TokenLifetime,
		resetTokenTTL: cfg.ResetTokenTTL,
		bcryptCost:    cost,
	}
}

// RegisterRequest creates a new portal account.
type RegisterRequest struct {
	Username string         `json:"username" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8"`
	FullName string         `json:"full_name"`
	Phone    string         `json:"phone"`
	Role     workflows.Role `json:"role" binding:"required"`
}

// Register creates a user with the given workflow role.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if !workflows.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	var user User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.db.WithContext(ctx).Model(&user).Update("last_login_at", now)

	return token, &user, nil
}

// VerifyToken parses and validates a JWT, returning the actor it encodes.
func (s *Service) VerifyToken(tokenString string) (*Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return &Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// GetUser returns a user by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, updated string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(updated), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error
}

// RequestPasswordReset creates a reset token for the account, returning the
// plaintext token for delivery. The stored copy is hashed.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the account exists.
			return "", nil
		}
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	plaintext := hex.EncodeToString(raw)
	digest := sha256.Sum256([]byte(plaintext))

	token := &PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hex.EncodeToString(digest[:]),
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return plaintext, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, plaintext, newPassword string) error {
	digest := sha256.Sum256([]byte(plaintext))

	var token PasswordResetToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", hex.EncodeToString(digest[:]), time.Now()).
		First(&token).Error
	if err != nil {
		return ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).Where("id = ?", token.UserID).
			Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&token).Update("used_at", now).Error
	})
}

// PurgeExpiredResetTokens removes tokens past their expiry. Called by the
// maintenance worker.
func (s *Service) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&PasswordResetToken{})
	return result.RowsAffected, result.Error
}
