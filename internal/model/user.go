package model

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the session view of an account: no credential material.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   Role   `json:"role"`
}

// Account is the persisted form of a user, keyed by lower-cased email.
type Account struct {
	User
	PasswordHash string `json:"passwordHash,omitempty"`
}
