package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

type User struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	Name                    string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email                   string         `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin" json:"email" validate:"required,email,min=5,max=200"`
	Password                string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role                    string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status                  string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	ReferralCode            string         `gorm:"type:varchar(20);default:null;uniqueIndex" json:"referral_code,omitempty"`
	CompletedReferralsCount int            `gorm:"not null;default:0" json:"completed_referrals_count"`
	ActivationToken         string         `gorm:"type:varchar(100);index" json:"-"`
	ActivationSentAt        *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	PasswordResetToken      string         `gorm:"type:varchar(100);default:null;index" json:"-"`
	PasswordResetSentAt     *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastWorkoutAt           *time.Time     `gorm:"type:timestamp;default:null" json:"last_workout_at,omitempty"`
	LastLoginAt             *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt               time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(username string, email string, password string) (*User, error) {
	u := &User{
		Name:     username,
		Email:    email,
		Password: password,
		Role:     ROLE_USER,
		Status:   STATUS_INACTIVE,
	}

	// Validate before hashing so the password length rule applies to the raw
	// input, not the bcrypt hash.
	if err := u.Validate(); err != nil {
		return nil, err
	}

	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.Password = pw

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// GenerateActivationToken creates a random token and sets ActivationSentAt
func (u *User) GenerateActivationToken() error {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	u.ActivationToken = hex.EncodeToString(b)
	now := time.Now()
	u.ActivationSentAt = &now
	return nil
}

// GeneratePasswordResetToken creates a random token and sets PasswordResetSentAt
func (u *User) GeneratePasswordResetToken() error {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	u.PasswordResetToken = hex.EncodeToString(b)
	now := time.Now()
	u.PasswordResetSentAt = &now
	return nil
}

// IsPasswordResetTokenValid checks the reset token and its age (valid for 2 hours)
func (u *User) IsPasswordResetTokenValid(token string) bool {
	if u.PasswordResetToken == "" || u.PasswordResetSentAt == nil {
		return false
	}
	if u.PasswordResetToken != token {
		return false
	}
	return time.Since(*u.PasswordResetSentAt) < 2*time.Hour
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// HasReferralCode reports whether the user already has a referral code assigned
func (u *User) HasReferralCode() bool {
	return u.ReferralCode != ""
}
