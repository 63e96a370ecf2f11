package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/auth"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/nav"
)

// AuthGateway is the slice of the auth collaborator the session holder
// needs: the forced sign-out used by the fail-closed path.
type AuthGateway interface {
	SignOut(ctx context.Context, userID string) error
}

const (
	bucketAvatars = "avatars"
)

// SessionUsecase mirrors the auth collaborator's session into local
// application state and owns the favorite-toggle transition.
type SessionUsecase struct {
	profiles domain.ProfileRepository
	authGw   AuthGateway
	nav      *nav.Machine
	storage  domain.FileStorage
	alerts   AlertSink
	logger   *zap.SugaredLogger

	mu       sync.Mutex
	current  *domain.Profile
	loggedIn bool
	gen      uint64
}

func NewSessionUsecase(profiles domain.ProfileRepository, authGw AuthGateway, navMachine *nav.Machine, storage domain.FileStorage, alerts AlertSink, log *zap.SugaredLogger) *SessionUsecase {
	return &SessionUsecase{
		profiles: profiles,
		authGw:   authGw,
		nav:      navMachine,
		storage:  storage,
		alerts:   alerts,
		logger:   log,
	}
}

// Run consumes the session-change subscription until ctx is cancelled, then
// releases the handle.
func (uc *SessionUsecase) Run(ctx context.Context, sub *auth.Subscription) {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-sub.C:
			if !ok {
				return
			}
			uc.Apply(ctx, n)
		}
	}
}

// Apply reacts to one session-change notification. Each notification bumps
// the state generation; a profile fetch that completes after a newer
// notification arrived is discarded instead of overwriting fresher state.
func (uc *SessionUsecase) Apply(ctx context.Context, n auth.Notification) {
	uc.mu.Lock()
	uc.gen++
	myGen := uc.gen
	uc.mu.Unlock()

	if n.Event != auth.EventSignedIn || n.Session == nil {
		uc.clear()
		uc.logger.Infow("session cleared")
		return
	}

	profile, err := uc.profiles.FindByID(ctx, n.Session.UserID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		// Provisioning gap: an authenticated session with no profile row.
		// Fail closed rather than operate with a partial identity.
		uc.logger.Warnw("no profile found for session, signing out",
			"user_id", n.Session.UserID)
		if err := uc.authGw.SignOut(ctx, n.Session.UserID); err != nil {
			uc.logger.Errorw("forced sign-out failed", "user_id", n.Session.UserID, "error", err.Error())
		}
		uc.clear()
		return
	case err != nil:
		uc.alerts.Alert(fmt.Sprintf("Error fetching user profile: %s", err.Error()))
		uc.clear()
		return
	}

	uc.mu.Lock()
	if uc.gen != myGen {
		// A newer notification superseded this fetch.
		uc.mu.Unlock()
		return
	}
	profile.Email = n.Session.Email
	uc.current = profile
	uc.loggedIn = true
	uc.mu.Unlock()

	uc.logger.Infow("session established", "user_id", profile.ID)
	if uc.nav.OnPreAuthPage() {
		uc.nav.Navigate(nav.To(nav.PageHome))
	}
}

func (uc *SessionUsecase) clear() {
	uc.mu.Lock()
	uc.current = nil
	uc.loggedIn = false
	uc.mu.Unlock()
}

// IsLoggedIn reports whether a session is active; it doubles as the
// navigation machine's session check.
func (uc *SessionUsecase) IsLoggedIn() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.loggedIn
}

// CurrentUser returns a copy of the local user state, or nil.
func (uc *SessionUsecase) CurrentUser() *domain.Profile {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.current == nil {
		return nil
	}
	cp := *uc.current
	cp.Favorites = append([]int64(nil), uc.current.Favorites...)
	return &cp
}

// ToggleFavorite flips membership of adID in the favorites set. The full
// replacement sequence is persisted first; local state changes only after
// the remote write succeeds. Without a session this is a navigation to
// Login, not a mutation.
func (uc *SessionUsecase) ToggleFavorite(ctx context.Context, adID int64) error {
	uc.mu.Lock()
	if !uc.loggedIn || uc.current == nil {
		uc.mu.Unlock()
		uc.nav.Navigate(nav.To(nav.PageLogin))
		return domain.ErrNotLoggedIn
	}
	userID := uc.current.ID
	updated := uc.current.ToggledFavorites(adID)
	uc.mu.Unlock()

	if err := uc.profiles.UpdateFavorites(ctx, userID, updated); err != nil {
		uc.alerts.Alert(err.Error())
		return err
	}

	uc.mu.Lock()
	if uc.current != nil && uc.current.ID == userID {
		uc.current.Favorites = updated
	}
	uc.mu.Unlock()
	return nil
}

// ProfileUpdate is the editable slice of the profile form.
type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string

	// Optional replacement avatar.
	ImageName string
	ImageData []byte
}

// UpdateProfile uploads a new avatar if one was attached, persists the
// profile row, and mirrors the result locally after the remote write.
func (uc *SessionUsecase) UpdateProfile(ctx context.Context, in ProfileUpdate) error {
	uc.mu.Lock()
	if !uc.loggedIn || uc.current == nil {
		uc.mu.Unlock()
		return domain.ErrNotLoggedIn
	}
	updated := *uc.current
	uc.mu.Unlock()

	if len(in.ImageData) > 0 {
		url, err := uc.storage.Upload(ctx, bucketAvatars, updated.ID, in.ImageName, in.ImageData)
		if err != nil {
			uc.alerts.Alert("Error uploading file: " + err.Error())
			return err
		}
		updated.ImageURL = url
	}

	updated.Name = in.Name
	updated.Phone = in.Phone
	updated.Address = in.Address

	if err := uc.profiles.Update(ctx, &updated); err != nil {
		uc.alerts.Alert(err.Error())
		return err
	}

	uc.mu.Lock()
	if uc.current != nil && uc.current.ID == updated.ID {
		uc.current = &updated
	}
	uc.mu.Unlock()
	uc.logger.Infow("profile updated", "user_id", updated.ID)
	return nil
}
