package domain

import "errors"

var (
	ErrAdNotFound      = errors.New("ad not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
	ErrProfileNotFound = errors.New("profile not found")
	ErrOwnerMissing    = errors.New("ad owner could not be found")
	ErrNotLoggedIn     = errors.New("no active session")

	// ErrLocationNotFound is a geocoder miss; it is cached like a hit.
	ErrLocationNotFound = errors.New("location could not be geocoded")
)
