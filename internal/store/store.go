package store

import (
	"context"
	"errors"

	"github.com/nhle/mailpane/internal/model"
)

// ErrNotFound is returned when an email id does not exist.
var ErrNotFound = errors.New("email not found")

// IsNotFound reports whether err (or any error in its chain) is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store defines the persistence interface behind the mail API.
type Store interface {
	// ListEmails returns emails for filter, newest first.
	ListEmails(ctx context.Context, filter model.Filter) ([]model.Email, error)
	GetEmail(ctx context.Context, id string) (*model.Email, error)

	// CreateEmail inserts a fully materialized email. The caller mints the
	// id and date.
	CreateEmail(ctx context.Context, email model.Email) error

	// UpdateEmail applies the non-nil fields of patch and returns the
	// stored record.
	UpdateEmail(ctx context.Context, id string, patch model.EmailPatch) (*model.Email, error)
	DeleteEmail(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
