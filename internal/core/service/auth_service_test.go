package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const testSecret = "test-secret"

func newAuthService(repo *stubUserRepo) (*AuthService, *stubFileStore) {
	files := &stubFileStore{}
	return NewAuthService(repo, files, testSecret, time.Hour, zerolog.Nop()), files
}

func TestRegister(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.COM",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercase-normalized", user.Email)
	}
	if user.Role != domain.RoleStudent {
		t.Errorf("role = %q, want default student", user.Role)
	}
	if !user.IsActive {
		t.Error("new accounts must be active")
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if user.Preferences.Language != "en" {
		t.Errorf("preferences language = %q, want defaults applied", user.Preferences.Language)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims["user_id"] != user.ID || claims["role"] != domain.RoleStudent {
		t.Errorf("claims = %v, want user_id and role", claims)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{Username: "alice", Email: "alice@example.com"})
	svc, _ := newAuthService(repo)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "somebody",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _ := newAuthService(newStubUserRepo())

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
		Role:     "superuser",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "ALICE@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("login must issue a token")
	}
	if user.LastLogin == nil {
		t.Error("login must record last_login")
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.LastLogin == nil {
		t.Error("last_login must be persisted")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(newStubUserRepo())

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials (no user enumeration)", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := svc.ForgotPassword(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token == "" {
		t.Fatal("reset token must not be empty")
	}

	if err := svc.ResetPassword(context.Background(), token, "newpassword"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// Old password no longer works, new one does.
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "hunter22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Error("old password must be rejected after reset")
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "newpassword"); err != nil {
		t.Errorf("login with new password: %v", err)
	}

	// The token is single-use.
	if err := svc.ResetPassword(context.Background(), token, "again"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("err = %v, want ErrInvalidResetToken for a consumed token", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	repo := newStubUserRepo()
	expired := time.Now().UTC().Add(-time.Minute)
	repo.add(&domain.User{
		Username: "alice", Email: "alice@example.com",
		ResetToken: "stale", ResetTokenExpiry: &expired,
	})
	svc, _ := newAuthService(repo)

	err := svc.ResetPassword(context.Background(), "stale", "newpassword")
	if !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("err = %v, want ErrInvalidResetToken", err)
	}
}

func TestUpdateProfileMerges(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{
		Username: "alice", Email: "alice@example.com",
		Profile: domain.Profile{FirstName: "Alice", Bio: "old bio"},
	})
	svc, _ := newAuthService(repo)

	newBio := "new bio"
	empty := ""
	user, err := svc.UpdateProfile(context.Background(), "user-1", ports.UpdateProfileInput{
		Bio:       &newBio,
		FirstName: &empty, // empty means keep existing
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if user.Profile.Bio != "new bio" {
		t.Errorf("bio = %q, want updated", user.Profile.Bio)
	}
	if user.Profile.FirstName != "Alice" {
		t.Errorf("first name = %q, want untouched", user.Profile.FirstName)
	}
}

func TestUpdateProfileReplacesAvatar(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{
		Username: "alice", Email: "alice@example.com",
		Profile: domain.Profile{Avatar: "/uploads/images/old.png"},
	})
	svc, files := newAuthService(repo)

	user, err := svc.UpdateProfile(context.Background(), "user-1", ports.UpdateProfileInput{
		Avatar: &ports.FileUpload{Filename: "new.png"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if user.Profile.Avatar != "/uploads/images/new.png" {
		t.Errorf("avatar = %q, want new path", user.Profile.Avatar)
	}
	if len(files.deleted) != 1 || files.deleted[0] != "/uploads/images/old.png" {
		t.Errorf("deleted = %v, want the previous avatar", files.deleted)
	}
}

func TestDashboardStats(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{Username: "a", Email: "a@x.com", Role: domain.RoleTeacher, IsActive: true})
	repo.add(&domain.User{Username: "b", Email: "b@x.com", Role: domain.RoleStudent, IsActive: true})
	repo.add(&domain.User{Username: "c", Email: "c@x.com", Role: domain.RoleStudent, IsActive: false})
	svc, _ := newAuthService(repo)

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.TotalUsers != 3 || stats.ActiveUsers != 2 {
		t.Errorf("totals = %d/%d active, want 3/2", stats.TotalUsers, stats.ActiveUsers)
	}
	if stats.Teachers != 1 || stats.Students != 2 {
		t.Errorf("roles = %d teachers / %d students, want 1/2", stats.Teachers, stats.Students)
	}
}
