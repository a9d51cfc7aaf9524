package models

// UserRole is the closed set of roles a user can hold.
type UserRole string

const (
	RoleOwner  UserRole = "OWNER"
	RoleTenant UserRole = "TENANT"
	RoleAdmin  UserRole = "ADMIN"
)

// ParseRole decodes a role string against the closed set. Unknown values
// are rejected here, at the boundary, instead of deep in business logic.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleOwner, RoleTenant, RoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

// SelfServiceRole reports whether a role may be chosen by the user
// themselves. ADMIN is never self-assignable.
func (r UserRole) SelfServiceRole() bool {
	return r == RoleOwner || r == RoleTenant
}

// User is identified by email. Accounts start with a provisional password
// and an incomplete profile; completing the profile sets the names, the
// final role and the completion flag.
type User struct {
	BaseModel
	Email               string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string   `gorm:"not null" json:"-"`
	Role                UserRole `gorm:"type:varchar(20);not null" json:"role"`
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName"`
	HasCompletedProfile bool     `gorm:"default:false" json:"hasCompletedProfile"`
	AvatarURL           string   `json:"avatarUrl,omitempty"`

	// Relations
	RefreshTokens       []RefreshToken       `gorm:"foreignKey:UserID" json:"-"`
	PasswordResetTokens []PasswordResetToken `gorm:"foreignKey:UserID" json:"-"`
	Biens               []Bien               `gorm:"foreignKey:ProprietaireID" json:"-"`
}
