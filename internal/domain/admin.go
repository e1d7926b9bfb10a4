package domain

import "time"

// AdminUser is a back-office account. Passwords are stored as bcrypt hashes.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AdminSession is the authenticated identity carried by the signed
// admin-session cookie.
type AdminSession struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}
