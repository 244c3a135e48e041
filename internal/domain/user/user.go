package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookify/internal/domain/shared/events"
	"bookify/internal/domain/shared/result"
)

type ID string

type FirstName string

type LastName string

type Email string

var (
	ErrNotFound     = result.NewError("User.NotFound", "the user with the specified identifier was not found")
	ErrInvalidName  = result.NewError("User.InvalidName", "first and last name are required")
	ErrInvalidEmail = result.NewError("User.InvalidEmail", "a valid email address is required")
	ErrEmailTaken   = result.NewError("User.EmailTaken", "the email address is already in use")
)

type User struct {
	ID        ID
	FirstName FirstName
	LastName  LastName
	Email     Email
	Version   int64
	events.Recorder
}

// Register validates the profile fields and builds a new user with a fresh
// identity, recording a "user.registered" event.
func Register(firstName FirstName, lastName LastName, email Email, now time.Time) result.Of[*User] {
	if strings.TrimSpace(string(firstName)) == "" || strings.TrimSpace(string(lastName)) == "" {
		return result.FailureOf[*User](ErrInvalidName)
	}
	addr := strings.TrimSpace(string(email))
	if addr == "" || !strings.Contains(addr, "@") {
		return result.FailureOf[*User](ErrInvalidEmail)
	}
	u := &User{
		ID:        ID(uuid.NewString()),
		FirstName: firstName,
		LastName:  lastName,
		Email:     Email(addr),
	}
	u.Record(Registered{UserID: u.ID, At: now.UTC()})
	return result.SuccessOf(u)
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	Add(ctx context.Context, user *User) error
}

// Registered is raised once when a user account is created.
type Registered struct {
	UserID ID
	At     time.Time
}

func (e Registered) EventName() string     { return "user.registered" }
func (e Registered) AggregateID() string   { return string(e.UserID) }
func (e Registered) OccurredAt() time.Time { return e.At }
