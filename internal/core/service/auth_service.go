package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const resetTokenTTL = 15 * time.Minute

// AuthService implements registration, login and account management.
type AuthService struct {
	repo      ports.UserRepository
	files     ports.FileStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, files ports.FileStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, files: files, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a new account. Email is lowercase-normalized; the role
// defaults to student.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !domain.ValidRole(role) {
		return "", nil, domain.ErrInvalidCredentials
	}

	if existing, err := s.repo.FindByEmailOrUsername(ctx, email, username); err == nil && existing != nil {
		return "", nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Preferences:  domain.DefaultPreferences(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return token, created, nil
}

// Login authenticates by email and password and records the login time.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ForgotPassword issues a reset token valid for 15 minutes. The token is
// returned to the caller; sending it by mail is out of scope.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}

	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	expiry := time.Now().UTC().Add(resetTokenTTL)
	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset token issued")
	return token, nil
}

// ResetPassword validates an unexpired token, re-hashes the password and
// clears the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrInvalidResetToken
	}

	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		return domain.ErrInvalidResetToken
	}
	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now().UTC()) {
		return domain.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile merges the supplied fields into the profile. A new avatar
// replaces the stored file; the previous one is removed best-effort.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil && *input.FirstName != "" {
		user.Profile.FirstName = *input.FirstName
	}
	if input.LastName != nil && *input.LastName != "" {
		user.Profile.LastName = *input.LastName
	}
	if input.Bio != nil && *input.Bio != "" {
		user.Profile.Bio = *input.Bio
	}
	if input.Phone != nil && *input.Phone != "" {
		user.Profile.Phone = *input.Phone
	}

	if input.Avatar != nil {
		path, err := s.files.Save(ctx, ports.FileKindImage, input.Avatar.Filename, input.Avatar.Content)
		if err != nil {
			return nil, err
		}
		if old := user.Profile.Avatar; old != "" {
			if err := s.files.Delete(ctx, old); err != nil {
				s.logger.Warn().Err(err).Str("path", old).Msg("failed to remove previous avatar")
			}
		}
		user.Profile.Avatar = path
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DashboardStats returns account counts for the admin dashboard.
func (s *AuthService) DashboardStats(ctx context.Context) (*ports.UserStats, error) {
	return s.repo.Stats(ctx)
}

// ListUsers returns all accounts. Password hashes never leave the domain
// struct's json:"-" fields.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
