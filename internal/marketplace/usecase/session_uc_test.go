package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/auth"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/nav"
)

func newSessionFixture(profiles *MockProfileRepository, authGw *MockAuthGateway, storage *MockFileStorage, alerts *recordingAlerts) (*SessionUsecase, *nav.Machine) {
	var uc *SessionUsecase
	machine := nav.New(func() bool {
		return uc != nil && uc.IsLoggedIn()
	}, nil)
	uc = NewSessionUsecase(profiles, authGw, machine, storage, alerts, zap.NewNop().Sugar())
	return uc, machine
}

func signedIn(userID, email string) auth.Notification {
	return auth.Notification{
		Event:   auth.EventSignedIn,
		Session: &auth.Session{UserID: userID, Email: email},
	}
}

func TestSessionApply_SignedInLoadsProfile(t *testing.T) {
	profiles := new(MockProfileRepository)
	authGw := new(MockAuthGateway)
	alerts := &recordingAlerts{}
	uc, machine := newSessionFixture(profiles, authGw, new(MockFileStorage), alerts)

	ctx := context.Background()
	profiles.On("FindByID", ctx, "u1").
		Return(&domain.Profile{ID: "u1", Name: "Omar", Favorites: []int64{3}}, nil).Once()

	machine.Navigate(nav.To(nav.PageLogin))
	uc.Apply(ctx, signedIn("u1", "omar@example.com"))

	assert.True(t, uc.IsLoggedIn())
	user := uc.CurrentUser()
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "omar@example.com", user.Email)
	// Establishing a session on a pre-auth page moves to Home.
	assert.Equal(t, nav.PageHome, machine.Current())
	profiles.AssertExpectations(t)
	assert.Empty(t, alerts.all())
}

func TestSessionApply_SignedInOnContentPageStaysPut(t *testing.T) {
	profiles := new(MockProfileRepository)
	uc, machine := newSessionFixture(profiles, new(MockAuthGateway), new(MockFileStorage), &recordingAlerts{})

	ctx := context.Background()
	profiles.On("FindByID", ctx, "u1").
		Return(&domain.Profile{ID: "u1"}, nil).Once()

	machine.Navigate(nav.To(nav.PageAbout))
	uc.Apply(ctx, signedIn("u1", "a@b.c"))

	assert.Equal(t, nav.PageAbout, machine.Current())
}

func TestSessionApply_MissingProfileSignsOutOnce(t *testing.T) {
	profiles := new(MockProfileRepository)
	authGw := new(MockAuthGateway)
	alerts := &recordingAlerts{}
	uc, _ := newSessionFixture(profiles, authGw, new(MockFileStorage), alerts)

	ctx := context.Background()
	profiles.On("FindByID", ctx, "ghost").Return(nil, domain.ErrProfileNotFound).Once()
	authGw.On("SignOut", ctx, "ghost").Return(nil).Once()

	uc.Apply(ctx, signedIn("ghost", "ghost@example.com"))

	assert.False(t, uc.IsLoggedIn())
	assert.Nil(t, uc.CurrentUser())
	// Fail-closed path is silent toward the user, no alert raised.
	assert.Empty(t, alerts.all())
	authGw.AssertNumberOfCalls(t, "SignOut", 1)
}

func TestSessionApply_FetchErrorAlertsAndClears(t *testing.T) {
	profiles := new(MockProfileRepository)
	authGw := new(MockAuthGateway)
	alerts := &recordingAlerts{}
	uc, _ := newSessionFixture(profiles, authGw, new(MockFileStorage), alerts)

	ctx := context.Background()
	profiles.On("FindByID", ctx, "u1").Return(nil, errors.New("connection refused")).Once()

	uc.Apply(ctx, signedIn("u1", "a@b.c"))

	assert.False(t, uc.IsLoggedIn())
	msgs := alerts.all()
	assert.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Error fetching user profile")
	authGw.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
}

func TestSessionApply_SignedOutClearsState(t *testing.T) {
	profiles := new(MockProfileRepository)
	uc, _ := newSessionFixture(profiles, new(MockAuthGateway), new(MockFileStorage), &recordingAlerts{})

	ctx := context.Background()
	profiles.On("FindByID", ctx, "u1").Return(&domain.Profile{ID: "u1"}, nil).Once()
	uc.Apply(ctx, signedIn("u1", "a@b.c"))
	assert.True(t, uc.IsLoggedIn())

	uc.Apply(ctx, auth.Notification{Event: auth.EventSignedOut})
	assert.False(t, uc.IsLoggedIn())
	assert.Nil(t, uc.CurrentUser())
}

func TestToggleFavorite_WithoutSessionNavigatesToLogin(t *testing.T) {
	profiles := new(MockProfileRepository)
	uc, machine := newSessionFixture(profiles, new(MockAuthGateway), new(MockFileStorage), &recordingAlerts{})

	err := uc.ToggleFavorite(context.Background(), 42)

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	assert.Equal(t, nav.PageLogin, machine.Current())
	profiles.AssertNotCalled(t, "UpdateFavorites", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleFavorite_AddThenRemove(t *testing.T) {
	profiles := new(MockProfileRepository)
	uc, _ := newSessionFixture(profiles, new(MockAuthGateway), new(MockFileStorage), &recordingAlerts{})

	ctx := context.Background()
	profiles.On("FindByID", ctx, "u1").
		Return(&domain.Profile{ID: "u1", Favorites: []int64{7}}, nil).Once()
	uc.Apply(ctx, signedIn("u1", "a@b.c"))

	profiles.On("UpdateFavorites", ctx, "u1", []int64{7, 42}).Return(nil).Once()
	assert.NoError(t, uc.ToggleFavorite(ctx, 42))
	assert.Equal(t, []int64{7, 42}, uc.CurrentUser().Favorites)

	profiles.On("UpdateFavorites", ctx, "u1", []int64{7}).Return(nil).Once()
	assert.NoError(t, uc.ToggleFavorite(ctx, 42))
	assert.Equal(t, []int64{7}, uc.CurrentUser().Favorites)

	profiles.AssertExpectations(t)
}

func TestToggleFavorite_RemoteFailureKeepsLocalState(t *testing.T) {
	profiles := new(MockProfileRepository)
	alerts := &recordingAlerts{}
	uc, _ := newSessionFixture(profiles, new(MockAuthGateway), new(MockFileStorage), alerts)

	ctx := context.Background()
	profiles.On("FindByID", ctx, "u1").
		Return(&domain.Profile{ID: "u1", Favorites: []int64{7}}, nil).Once()
	uc.Apply(ctx, signedIn("u1", "a@b.c"))

	profiles.On("UpdateFavorites", ctx, "u1", []int64{7, 42}).
		Return(errors.New("write failed")).Once()

	err := uc.ToggleFavorite(ctx, 42)

	assert.Error(t, err)
	assert.Equal(t, []int64{7}, uc.CurrentUser().Favorites)
	assert.Equal(t, []string{"write failed"}, alerts.all())
}

func TestUpdateProfile_UploadsAvatarBeforePersisting(t *testing.T) {
	profiles := new(MockProfileRepository)
	storage := new(MockFileStorage)
	uc, _ := newSessionFixture(profiles, new(MockAuthGateway), storage, &recordingAlerts{})

	ctx := context.Background()
	profiles.On("FindByID", ctx, "u1").
		Return(&domain.Profile{ID: "u1", Name: "Old"}, nil).Once()
	uc.Apply(ctx, signedIn("u1", "a@b.c"))

	storage.On("Upload", ctx, "avatars", "u1", "me.png", []byte{1, 2}).
		Return("http://files/avatars/u1/1.png", nil).Once()
	profiles.On("Update", ctx, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.ID == "u1" && p.Name == "New" && p.ImageURL == "http://files/avatars/u1/1.png"
	})).Return(nil).Once()

	err := uc.UpdateProfile(ctx, ProfileUpdate{
		Name:      "New",
		ImageName: "me.png",
		ImageData: []byte{1, 2},
	})

	assert.NoError(t, err)
	assert.Equal(t, "New", uc.CurrentUser().Name)
	storage.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestUpdateProfile_WithoutSession(t *testing.T) {
	uc, _ := newSessionFixture(new(MockProfileRepository), new(MockAuthGateway), new(MockFileStorage), &recordingAlerts{})

	err := uc.UpdateProfile(context.Background(), ProfileUpdate{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}
