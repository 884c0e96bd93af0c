package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/charlesk/bankdesk/internal/models"
	"github.com/charlesk/bankdesk/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrUsernameExists     = errors.New("username already taken")
)

// Bootstrap identity created on first initialization. The password is
// surfaced to the operator exactly once, when the admin is first created.
const (
	BootstrapUsername = "Admin"
	BootstrapPassword = "Admin123"
	bootstrapFullName = "Charles Admin"
)

// AdminStorage defines the interface for administrator persistence.
// This allows the authenticator to be independent of the storage implementation.
type AdminStorage interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	CountAdmins(ctx context.Context) (int, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage AdminStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage AdminStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new administrator with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, fullName, credential string) (*models.Admin, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := a.storage.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// Authenticate verifies the username and password, returning the admin if
// valid. Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.Admin, error) {
	admin, err := a.storage.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

// EnsureBootstrap creates the bootstrap administrator if no administrator
// exists yet. Calling it again is a no-op. It reports whether the admin was
// created on this call, so the operator can be shown the default credential
// exactly once.
func (a *PasswordAuthenticator) EnsureBootstrap(ctx context.Context) (bool, error) {
	count, err := a.storage.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := a.Register(ctx, BootstrapUsername, bootstrapFullName, BootstrapPassword); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	return true, nil
}
