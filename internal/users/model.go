package users

import "time"

// Role gates admin-only endpoints.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a registered shopper or administrator.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         Role
	CartItems    []CartItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CartItem is a product reference embedded in the user record.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Profile is the public view of a user; it never carries the password hash.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Profile strips credentials from the user record.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// IsAdmin reports whether the user may call admin routes.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
