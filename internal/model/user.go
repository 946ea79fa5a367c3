package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the roles an identity may hold.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is a stored identity. The credential hash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullname"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfilePatch carries the optional fields of a profile update. Nil means unchanged.
type ProfilePatch struct {
	FullName     *string
	Email        *string
	PhoneNumber  *string
	PasswordHash *string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.PhoneNumber == nil && p.PasswordHash == nil
}

// AuthClaims is the verified identity a token carries for the lifetime of a request.
type AuthClaims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type UserStats struct {
	TotalUsers        int         `json:"totalUsers"`
	NewUsersThisMonth int         `json:"newUsersThisMonth"`
	UsersByRole       []RoleCount `json:"usersByRole"`
}

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
