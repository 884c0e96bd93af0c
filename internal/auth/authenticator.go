package auth

import (
	"context"

	"github.com/charlesk/bankdesk/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different credential schemes
// without changing the shell. Each call is stateless: there are no sessions,
// tokens, or lockouts.
type Authenticator interface {
	// Register creates a new administrator with the given credential.
	// Returns the created admin or an error if registration fails.
	Register(ctx context.Context, username, fullName, credential string) (*models.Admin, error)

	// Authenticate verifies the credentials and returns the admin if valid.
	// Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, username, credential string) (*models.Admin, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
