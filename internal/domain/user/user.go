package user

import (
	"errors"
	"time"
)

// User records are provisioned externally; this service only ever reads them
// to map a verified token subject onto an owner id.
type User struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrNotFound         = errors.New("user not found")
	ErrAmbiguousSubject = errors.New("subject matches more than one user")
)
