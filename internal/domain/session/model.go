package session

import "time"

type Profile struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Email     *string   `gorm:"type:text"`
	Username  string    `gorm:"size:50;not null"`
	IsPremium bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }

// Identity is the authenticated user as the auth backend knows it.
type Identity struct {
	UserID string
	Email  string
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// AuthResult is what the auth backend returns for sign-in and sign-up.
// Tokens are empty when sign-up still waits for email confirmation.
type AuthResult struct {
	Identity Identity
	Tokens   Tokens
}

type Session struct {
	Identity Identity
	Profile  Profile
	Tokens   Tokens
}

// Pending reports whether the account exists but cannot sign in yet.
func (s Session) Pending() bool {
	return s.Tokens.AccessToken == ""
}
