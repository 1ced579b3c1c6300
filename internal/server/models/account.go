package models

import "time"

// Account is a registered principal as stored in the users table.
// PasswordHash holds encoded slow-hash material and never leaves the server.
type Account struct {
	ID           string
	UserName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// PublicAccount is the outward view of an Account, without hash material.
type PublicAccount struct {
	ID       string
	UserName string
	Role     Role
}

// Public strips the hash from a.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{ID: a.ID, UserName: a.UserName, Role: a.Role}
}
