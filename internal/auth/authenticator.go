package auth

import (
	"context"

	"github.com/tandaclub/tanda/internal/models"
)

// Authenticator abstracts how callers prove who they are, so the rest of
// the service does not care whether credentials are passwords, OAuth
// tokens or anything else.
type Authenticator interface {
	// Register creates a new account from an email, display name and
	// credential, returning the created user.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching
	// user, or an error when it does not check out.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
