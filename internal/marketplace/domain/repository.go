package domain

import "context"

// AdRepository is the ads table of the record store.
type AdRepository interface {
	// FindAll returns the whole collection ordered by id descending.
	FindAll(ctx context.Context) ([]*VehicleAd, error)
	Create(ctx context.Context, ad *VehicleAd) error
	Update(ctx context.Context, ad *VehicleAd) error
	Delete(ctx context.Context, id int64) error
}

// ProfileRepository is the profiles table of the record store.
type ProfileRepository interface {
	FindAll(ctx context.Context) ([]*Profile, error)
	// FindByID returns ErrProfileNotFound when zero rows match.
	FindByID(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	// UpdateFavorites replaces the whole favorites sequence.
	UpdateFavorites(ctx context.Context, id string, favorites []int64) error
}

// FileStorage uploads a file into a bucket under the
// {ownerID}/{timestamp}.{ext} convention and returns its public URL.
type FileStorage interface {
	Upload(ctx context.Context, bucket, ownerID, filename string, data []byte) (string, error)
}

// Publisher emits application events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Geocoder resolves a freeform location to coordinates. A miss is
// ErrLocationNotFound, not a transport error.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*Coordinates, error)
}

// Mailer delivers account emails.
type Mailer interface {
	SendVerificationCode(toEmail, code string) error
	SendPasswordReset(toEmail, code string) error
}
