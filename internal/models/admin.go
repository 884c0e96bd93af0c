package models

// Admin represents an administrator who can sign in to the console.
type Admin struct {
	// ID is the row identifier assigned by the database.
	ID int64

	// Username is the unique login name.
	Username string

	// PasswordHash is the bcrypt hash of the admin's password.
	PasswordHash string

	// FullName is the display name shown after login.
	FullName string
}
