package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/search"
)

const (
	bucketAds = "ads"

	subjectAdCreated = "ads.created"
	subjectAdUpdated = "ads.updated"
	subjectAdDeleted = "ads.deleted"
)

// CatalogUsecase mirrors the remote ad and profile collections in memory.
// The mirror is refreshed wholesale at startup and after every mutation;
// there is no incremental patching.
type CatalogUsecase struct {
	ads       domain.AdRepository
	profiles  domain.ProfileRepository
	storage   domain.FileStorage
	publisher domain.Publisher
	alerts    AlertSink
	logger    *zap.SugaredLogger

	mu         sync.RWMutex
	allAds     []*domain.VehicleAd
	allUsers   []*domain.Profile
	setupError bool
}

func NewCatalogUsecase(ads domain.AdRepository, profiles domain.ProfileRepository, storage domain.FileStorage, publisher domain.Publisher, alerts AlertSink, log *zap.SugaredLogger) *CatalogUsecase {
	return &CatalogUsecase{
		ads:       ads,
		profiles:  profiles,
		storage:   storage,
		publisher: publisher,
		alerts:    alerts,
		logger:    log,
	}
}

// Refresh re-fetches both collections. The two fetches are issued
// concurrently; they populate disjoint state, so no ordering between their
// completions is required.
func (uc *CatalogUsecase) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		uc.RefreshAds(ctx)
	}()
	go func() {
		defer wg.Done()
		uc.RefreshProfiles(ctx)
	}()
	wg.Wait()
}

// RefreshAds replaces the ad mirror with the remote collection.
func (uc *CatalogUsecase) RefreshAds(ctx context.Context) {
	rows, err := uc.ads.FindAll(ctx)
	if err != nil {
		uc.noteFetchError("ads", err)
		return
	}
	uc.mu.Lock()
	uc.allAds = rows
	uc.mu.Unlock()
	uc.logger.Debugw("ads refreshed", "count", len(rows))
}

// RefreshProfiles replaces the user mirror with the remote collection.
func (uc *CatalogUsecase) RefreshProfiles(ctx context.Context) {
	rows, err := uc.profiles.FindAll(ctx)
	if err != nil {
		uc.noteFetchError("users", err)
		return
	}
	uc.mu.Lock()
	uc.allUsers = rows
	uc.mu.Unlock()
	uc.logger.Debugw("profiles refreshed", "count", len(rows))
}

// noteFetchError distinguishes the persistent missing-schema condition from
// transient store errors. Detection is by message substring, matching how
// the record store reports an absent collection.
func (uc *CatalogUsecase) noteFetchError(what string, err error) {
	msg := err.Error()
	if strings.Contains(msg, "Could not find the table") ||
		strings.Contains(msg, "ns not found") ||
		strings.Contains(msg, "does not exist") {
		uc.mu.Lock()
		uc.setupError = true
		uc.mu.Unlock()
	}
	uc.logger.Errorw("failed to fetch collection", "collection", what, "error", msg)
	uc.alerts.Alert(fmt.Sprintf("Error fetching %s: %s", what, msg))
}

// SetupRequired reports the persistent banner state raised when the backing
// tables are absent.
func (uc *CatalogUsecase) SetupRequired() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.setupError
}

// Ads returns the mirror in last-fetched order (id descending).
func (uc *CatalogUsecase) Ads() []*domain.VehicleAd {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]*domain.VehicleAd(nil), uc.allAds...)
}

// Users returns the profile mirror.
func (uc *CatalogUsecase) Users() []*domain.Profile {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]*domain.Profile(nil), uc.allUsers...)
}

// Latest returns the n most recent ads.
func (uc *CatalogUsecase) Latest(n int) []*domain.VehicleAd {
	ads := uc.Ads()
	if len(ads) > n {
		ads = ads[:n]
	}
	return ads
}

// Recommended returns n ads from the old end of the collection, the
// home-page counterpart to Latest.
func (uc *CatalogUsecase) Recommended(n int) []*domain.VehicleAd {
	ads := uc.Ads()
	for i, j := 0, len(ads)-1; i < j; i, j = i+1, j-1 {
		ads[i], ads[j] = ads[j], ads[i]
	}
	if len(ads) > n {
		ads = ads[:n]
	}
	return ads
}

// ByOwner returns the ads belonging to one user, for the dashboard.
func (uc *CatalogUsecase) ByOwner(ownerID string) []*domain.VehicleAd {
	var out []*domain.VehicleAd
	for _, ad := range uc.Ads() {
		if ad.OwnerID == ownerID {
			out = append(out, ad)
		}
	}
	return out
}

// FavoriteAds resolves a favorites sequence against the mirror. Ids that no
// longer resolve are skipped.
func (uc *CatalogUsecase) FavoriteAds(favorites []int64) []*domain.VehicleAd {
	wanted := make(map[int64]bool, len(favorites))
	for _, id := range favorites {
		wanted[id] = true
	}
	var out []*domain.VehicleAd
	for _, ad := range uc.Ads() {
		if wanted[ad.ID] {
			out = append(out, ad)
		}
	}
	return out
}

// Find returns the mirrored ad with the given id.
func (uc *CatalogUsecase) Find(adID int64) (*domain.VehicleAd, error) {
	for _, ad := range uc.Ads() {
		if ad.ID == adID {
			return ad, nil
		}
	}
	return nil, domain.ErrAdNotFound
}

// Detail assembles the ad detail view: the ad, its owner, and up to four
// similar ads. A dangling owner reference is an error view, not a crash.
func (uc *CatalogUsecase) Detail(adID int64) (*domain.VehicleAd, *domain.Profile, []*domain.VehicleAd, error) {
	ad, err := uc.Find(adID)
	if err != nil {
		return nil, nil, nil, err
	}

	var owner *domain.Profile
	for _, u := range uc.Users() {
		if u.ID == ad.OwnerID {
			owner = u
			break
		}
	}
	if owner == nil {
		return nil, nil, nil, domain.ErrOwnerMissing
	}

	return ad, owner, search.Similar(ad, uc.Ads()), nil
}

// Search evaluates criteria against the current mirror.
func (uc *CatalogUsecase) Search(criteria domain.SearchCriteria) []*domain.VehicleAd {
	return search.Filter(uc.Ads(), criteria)
}

// AdInput is the ad form payload. ImageData, when present, is uploaded to
// the ads bucket and becomes the primary image.
type AdInput struct {
	Title       string
	Price       float64
	Year        int
	Mileage     float64
	Location    string
	Category    string
	Description string

	ImageName string
	ImageData []byte
}

// PostAd creates a listing for ownerID, then re-fetches the collection.
func (uc *CatalogUsecase) PostAd(ctx context.Context, ownerID string, in AdInput) (*domain.VehicleAd, error) {
	var imageURLs []string
	if len(in.ImageData) > 0 {
		url, err := uc.storage.Upload(ctx, bucketAds, ownerID, in.ImageName, in.ImageData)
		if err != nil {
			uc.alerts.Alert("Error uploading file: " + err.Error())
			return nil, err
		}
		imageURLs = []string{url}
	}

	now := time.Now()
	ad := &domain.VehicleAd{
		Title:       in.Title,
		Price:       in.Price,
		Year:        in.Year,
		Mileage:     in.Mileage,
		Location:    in.Location,
		ImageURLs:   imageURLs,
		Category:    in.Category,
		OwnerID:     ownerID,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ad.NormalizeImages("")

	if err := uc.ads.Create(ctx, ad); err != nil {
		uc.alerts.Alert(err.Error())
		return nil, err
	}
	uc.publish(ctx, subjectAdCreated, ad)
	uc.RefreshAds(ctx)
	uc.logger.Infow("ad posted", "ad_id", ad.ID, "owner_id", ownerID)
	return ad, nil
}

// UpdateAd edits an existing listing. Only the owner may edit; a fresh
// image replaces the primary image and keeps the rest of the carousel.
func (uc *CatalogUsecase) UpdateAd(ctx context.Context, userID string, adID int64, in AdInput) (*domain.VehicleAd, error) {
	existing, err := uc.Find(adID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != userID {
		uc.logger.Warnw("forbidden ad update", "ad_id", adID, "owner_id", existing.OwnerID, "user_id", userID)
		return nil, domain.ErrForbidden
	}

	updated := *existing
	updated.Title = in.Title
	updated.Price = in.Price
	updated.Year = in.Year
	updated.Mileage = in.Mileage
	updated.Location = in.Location
	updated.Category = in.Category
	updated.Description = in.Description
	updated.UpdatedAt = time.Now()

	if len(in.ImageData) > 0 {
		url, err := uc.storage.Upload(ctx, bucketAds, userID, in.ImageName, in.ImageData)
		if err != nil {
			uc.alerts.Alert("Error uploading file: " + err.Error())
			return nil, err
		}
		if len(updated.ImageURLs) > 0 {
			updated.ImageURLs = append([]string{url}, updated.ImageURLs[1:]...)
		} else {
			updated.ImageURLs = []string{url}
		}
	}
	updated.NormalizeImages("")

	if err := uc.ads.Update(ctx, &updated); err != nil {
		uc.alerts.Alert(err.Error())
		return nil, err
	}
	uc.publish(ctx, subjectAdUpdated, &updated)
	uc.RefreshAds(ctx)
	return &updated, nil
}

// DeleteAd removes a listing. Only the owner may delete.
func (uc *CatalogUsecase) DeleteAd(ctx context.Context, userID string, adID int64) error {
	existing, err := uc.Find(adID)
	if err != nil {
		return err
	}
	if existing.OwnerID != userID {
		uc.logger.Warnw("forbidden ad delete", "ad_id", adID, "owner_id", existing.OwnerID, "user_id", userID)
		return domain.ErrForbidden
	}

	if err := uc.ads.Delete(ctx, adID); err != nil {
		uc.alerts.Alert(err.Error())
		return err
	}
	uc.publish(ctx, subjectAdDeleted, existing)
	uc.RefreshAds(ctx)
	uc.logger.Infow("ad deleted", "ad_id", adID, "user_id", userID)
	return nil
}

// AttachPhoto uploads an additional image for an existing ad and appends it
// to the carousel. Only the owner may attach photos.
func (uc *CatalogUsecase) AttachPhoto(ctx context.Context, userID string, adID int64, filename string, data []byte) (string, error) {
	existing, err := uc.Find(adID)
	if err != nil {
		return "", err
	}
	if existing.OwnerID != userID {
		return "", domain.ErrForbidden
	}

	url, err := uc.storage.Upload(ctx, bucketAds, userID, filename, data)
	if err != nil {
		uc.alerts.Alert("Error uploading file: " + err.Error())
		return "", err
	}

	updated := *existing
	updated.ImageURLs = append(append([]string(nil), existing.ImageURLs...), url)
	if err := uc.ads.Update(ctx, &updated); err != nil {
		uc.alerts.Alert(err.Error())
		return "", err
	}
	uc.publish(ctx, subjectAdUpdated, &updated)
	uc.RefreshAds(ctx)
	return url, nil
}

func (uc *CatalogUsecase) publish(ctx context.Context, subject string, ad *domain.VehicleAd) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, subject, ad); err != nil {
		uc.logger.Warnw("failed to publish ad event", "subject", subject, "error", err.Error())
	}
}
