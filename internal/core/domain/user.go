package domain

import (
	"errors"
	"time"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher || role == RoleAdmin
}

// PostalAddress is the optional mailing address inside a user profile.
type PostalAddress struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
}

// SocialLinks holds optional public profile links.
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty" bson:"github,omitempty"`
	Website  string `json:"website,omitempty" bson:"website,omitempty"`
}

// Profile is the default-populated profile sub-record.
type Profile struct {
	FirstName   string        `json:"first_name" bson:"first_name"`
	LastName    string        `json:"last_name" bson:"last_name"`
	Bio         string        `json:"bio" bson:"bio"`
	Avatar      string        `json:"avatar" bson:"avatar"`
	DateOfBirth *time.Time    `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Phone       string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     PostalAddress `json:"address" bson:"address"`
	SocialLinks SocialLinks   `json:"social_links" bson:"social_links"`
}

// Preferences holds notification flags and locale settings.
type Preferences struct {
	EmailNotifications bool   `json:"email_notifications" bson:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications" bson:"push_notifications"`
	MarketingEmails    bool   `json:"marketing_emails" bson:"marketing_emails"`
	Language           string `json:"language" bson:"language"`
	Timezone           string `json:"timezone" bson:"timezone"`
}

// DefaultPreferences returns the preferences applied at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		PushNotifications:  true,
		MarketingEmails:    false,
		Language:           "en",
		Timezone:           "UTC",
	}
}

// User models an account in the marketplace. The password hash and reset
// token are never serialized to JSON.
type User struct {
	ID               string      `json:"id" bson:"_id,omitempty"`
	Username         string      `json:"username" bson:"username"`
	Email            string      `json:"email" bson:"email"`
	PasswordHash     string      `json:"-" bson:"password_hash"`
	Role             string      `json:"role" bson:"role"`
	Profile          Profile     `json:"profile" bson:"profile"`
	Preferences      Preferences `json:"preferences" bson:"preferences"`
	IsEmailVerified  bool        `json:"is_email_verified" bson:"is_email_verified"`
	IsActive         bool        `json:"is_active" bson:"is_active"`
	LastLogin        *time.Time  `json:"last_login,omitempty" bson:"last_login,omitempty"`
	ResetToken       string      `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiry *time.Time  `json:"-" bson:"reset_token_expiry,omitempty"`
	CreatedAt        time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" bson:"updated_at"`
}
