package mongodb

import (
	"time"

	"github.com/driaaomar7-tech/maghrebcar/internal/auth"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// mongoAd mirrors the ads table. The legacy single image_url column is kept
// in sync with image_urls[0] for older readers.
type mongoAd struct {
	ID          int64     `bson:"_id"`
	Title       string    `bson:"title"`
	Price       float64   `bson:"price"`
	Year        int       `bson:"year"`
	Mileage     float64   `bson:"mileage"`
	Location    string    `bson:"location"`
	ImageURL    string    `bson:"image_url,omitempty"`
	ImageURLs   []string  `bson:"image_urls,omitempty"`
	Category    string    `bson:"category"`
	OwnerID     string    `bson:"owner_id"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (m *mongoAd) toEntity() *domain.VehicleAd {
	ad := &domain.VehicleAd{
		ID:          m.ID,
		Title:       m.Title,
		Price:       m.Price,
		Year:        m.Year,
		Mileage:     m.Mileage,
		Location:    m.Location,
		ImageURLs:   m.ImageURLs,
		Category:    m.Category,
		OwnerID:     m.OwnerID,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	ad.NormalizeImages(m.ImageURL)
	return ad
}

func adFromEntity(ad *domain.VehicleAd) *mongoAd {
	return &mongoAd{
		ID:          ad.ID,
		Title:       ad.Title,
		Price:       ad.Price,
		Year:        ad.Year,
		Mileage:     ad.Mileage,
		Location:    ad.Location,
		ImageURL:    ad.PrimaryImage(),
		ImageURLs:   ad.ImageURLs,
		Category:    ad.Category,
		OwnerID:     ad.OwnerID,
		Description: ad.Description,
		CreatedAt:   ad.CreatedAt,
		UpdatedAt:   ad.UpdatedAt,
	}
}

type mongoProfile struct {
	ID        string  `bson:"_id"`
	Name      string  `bson:"name"`
	Phone     string  `bson:"phone,omitempty"`
	Address   string  `bson:"address,omitempty"`
	ImageURL  string  `bson:"image_url,omitempty"`
	Favorites []int64 `bson:"favorites"`
}

func (m *mongoProfile) toEntity() *domain.Profile {
	favorites := m.Favorites
	if favorites == nil {
		favorites = []int64{}
	}
	return &domain.Profile{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Address:   m.Address,
		ImageURL:  m.ImageURL,
		Favorites: favorites,
	}
}

func profileFromEntity(p *domain.Profile) *mongoProfile {
	return &mongoProfile{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Address:   p.Address,
		ImageURL:  p.ImageURL,
		Favorites: p.Favorites,
	}
}

type mongoAuthUser struct {
	ID            string     `bson:"_id"`
	Name          string     `bson:"name"`
	Email         string     `bson:"email"`
	Password      string     `bson:"password"`
	IsVerified    bool       `bson:"is_verified"`
	Code          string     `bson:"verification_code,omitempty"`
	CodeExpiresAt *time.Time `bson:"verification_code_expires_at,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func (m *mongoAuthUser) toEntity() *auth.User {
	u := &auth.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
		Verified:     m.IsVerified,
		Code:         m.Code,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.CodeExpiresAt != nil {
		u.CodeExpiresAt = *m.CodeExpiresAt
	}
	return u
}
