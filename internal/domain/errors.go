package domain

import "errors"

var (
	ErrItemNotFound = errors.New("auction item not found")
	ErrUserNotFound = errors.New("user not found")

	ErrBidTooLow     = errors.New("bid too low")
	ErrAuctionClosed = errors.New("auction is closed")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrVersionConflict is returned by a conditional write that lost the
	// race to another writer. The bid protocol retries on it; it never
	// reaches a client.
	ErrVersionConflict = errors.New("item version conflict")
)
