package models

import "time"

// RefreshToken is the server-side record of a long-lived opaque session
// credential. A user has at most one active row: issuing a new token
// deletes the previous one. Logout flips Revoked instead of deleting the
// row, so revoked sessions stay visible until cleanup removes them.
type RefreshToken struct {
	BaseModel
	UserID     string    `gorm:"not null;index" json:"userId"`
	Token      string    `gorm:"not null;uniqueIndex" json:"-"`
	Expiration time.Time `gorm:"not null" json:"expiration"`
	Revoked    bool      `gorm:"default:false" json:"revoked"`
}

// Valid reports whether the token may still mint access tokens. Both
// conditions gate validity: a revoked-but-present row is as dead as an
// expired one.
func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && t.Expiration.After(now)
}

// PasswordResetToken authorizes exactly one password change within a short
// window. Consumption deletes the row.
type PasswordResetToken struct {
	BaseModel
	UserID         string    `gorm:"not null;index" json:"userId"`
	Token          string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpirationDate time.Time `gorm:"not null" json:"expirationDate"`
}

// Expired reports whether the reset window has closed.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !t.ExpirationDate.After(now)
}
