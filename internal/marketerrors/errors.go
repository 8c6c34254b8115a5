package marketerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
	ErrIO          = errors.New("storage unavailable")

	ErrRequestNotFound      = fmt.Errorf("request %w", ErrNotFound)
	ErrBidNotFound          = fmt.Errorf("bid %w", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("conversation %w", ErrNotFound)
)

// lifecycle errors
var (
	ErrInvalidState   = errors.New("invalid state transition")
	ErrRequestNotOpen = errors.New("request is not open")
)

// business logic errors
var (
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthenticated  = errors.New("not signed in")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidMessage   = errors.New("invalid message")
	ErrSelfBidForbidden = errors.New("students cannot bid on their own request")
)
