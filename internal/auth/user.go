package auth

import (
	"context"
	"time"
)

// MaxFaults is the failed-login threshold. A user with more than
// MaxFaults recorded failures is locked out until an administrator
// intervenes; the counter keeps growing past it.
const MaxFaults = 9

// User is the identity record the authenticator operates on.
type User struct {
	ID          string
	GroupID     string
	Username    string
	Email       string
	Hash        string
	Faults      int
	Enabled     bool
	Super       bool
	PwReset     *string
	LastLoginAt *time.Time
}

// Locked reports whether the fault counter has crossed the lockout
// threshold.
func (u *User) Locked() bool {
	return u.Faults > MaxFaults
}

// UserStore is the read-mostly identity source. RecordFailure and
// RecordSuccess are last-write-wins updates with no row locking;
// concurrent logins can race on the fault counter.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// RecordFailure increments the fault counter by one.
	RecordFailure(ctx context.Context, id string) error

	// RecordSuccess resets faults to zero, clears any pending password
	// reset token and stamps the last login time.
	RecordSuccess(ctx context.Context, id string, at time.Time) error
}
