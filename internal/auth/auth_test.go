package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockUserStore struct{ mock.Mock }

func (m *MockUserStore) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}
func (m *MockUserStore) SaveVerification(ctx context.Context, id, code string, expiresAt time.Time) error {
	args := m.Called(ctx, id, code, expiresAt)
	return args.Error(0)
}
func (m *MockUserStore) MarkVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type MockTokenCache struct{ mock.Mock }

func (m *MockTokenCache) Cache(ctx context.Context, userID, token string, ttl time.Duration) error {
	args := m.Called(ctx, userID, token, ttl)
	return args.Error(0)
}
func (m *MockTokenCache) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendVerificationCode(toEmail, code string) error {
	args := m.Called(toEmail, code)
	return args.Error(0)
}
func (m *MockMailer) SendPasswordReset(toEmail, code string) error {
	args := m.Called(toEmail, code)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func newAuthFixture(store *MockUserStore, tokens *MockTokenCache, mailer *MockMailer, publisher *MockPublisher) *Service {
	return NewService(store, tokens, mailer, publisher, "test-secret", zap.NewNop())
}

func hashed(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func TestSignUp_CreatesUserMailsCodeAndPublishes(t *testing.T) {
	store := new(MockUserStore)
	mailer := new(MockMailer)
	publisher := new(MockPublisher)
	svc := newAuthFixture(store, new(MockTokenCache), mailer, publisher)

	ctx := context.Background()
	store.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
		return u.Email == "new@example.com" && !u.Verified && len(u.Code) == 6
	})).Return(nil).Once()
	mailer.On("SendVerificationCode", "new@example.com", mock.AnythingOfType("string")).Return(nil).Once()
	publisher.On("Publish", ctx, "auth.user.registered", mock.MatchedBy(func(e RegisteredEvent) bool {
		return e.Email == "new@example.com" && e.Name == "Nadia"
	})).Return(nil).Once()

	userID, err := svc.SignUp(ctx, "Nadia", "new@example.com", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, userID)
	store.AssertExpectations(t)
	mailer.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	store := new(MockUserStore)
	mailer := new(MockMailer)
	svc := newAuthFixture(store, new(MockTokenCache), mailer, new(MockPublisher))

	ctx := context.Background()
	store.On("Create", ctx, mock.Anything).Return(ErrDuplicateEmail).Once()

	_, err := svc.SignUp(ctx, "Nadia", "taken@example.com", "secret123")

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	mailer.AssertNotCalled(t, "SendVerificationCode", mock.Anything, mock.Anything)
}

func TestSignIn_HappyPathNotifiesSubscribers(t *testing.T) {
	store := new(MockUserStore)
	tokens := new(MockTokenCache)
	svc := newAuthFixture(store, tokens, new(MockMailer), new(MockPublisher))

	sub := svc.Subscribe()
	defer sub.Unsubscribe()

	ctx := context.Background()
	store.On("FindByEmail", ctx, "omar@example.com").Return(&User{
		ID:           "u1",
		Email:        "omar@example.com",
		PasswordHash: hashed("secret123"),
		Verified:     true,
	}, nil).Once()
	tokens.On("Cache", ctx, "u1", mock.AnythingOfType("string"), 24*time.Hour).Return(nil).Once()

	sess, err := svc.SignIn(ctx, "omar@example.com", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.NotEmpty(t, sess.Token)

	// The token round-trips through the parser.
	userID, err := svc.ParseToken(sess.Token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", userID)

	select {
	case n := <-sub.C:
		assert.Equal(t, EventSignedIn, n.Event)
		assert.Equal(t, "u1", n.Session.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected a signed-in notification")
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	store := new(MockUserStore)
	svc := newAuthFixture(store, new(MockTokenCache), new(MockMailer), new(MockPublisher))

	ctx := context.Background()
	store.On("FindByEmail", ctx, "omar@example.com").Return(&User{
		ID:           "u1",
		PasswordHash: hashed("secret123"),
		Verified:     true,
	}, nil).Once()

	_, err := svc.SignIn(ctx, "omar@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_UnknownEmailIsInvalidCredentials(t *testing.T) {
	store := new(MockUserStore)
	svc := newAuthFixture(store, new(MockTokenCache), new(MockMailer), new(MockPublisher))

	ctx := context.Background()
	store.On("FindByEmail", ctx, "nobody@example.com").Return(nil, ErrUserNotFound).Once()

	_, err := svc.SignIn(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_UnverifiedEmail(t *testing.T) {
	store := new(MockUserStore)
	svc := newAuthFixture(store, new(MockTokenCache), new(MockMailer), new(MockPublisher))

	ctx := context.Background()
	store.On("FindByEmail", ctx, "omar@example.com").Return(&User{
		ID:           "u1",
		PasswordHash: hashed("secret123"),
		Verified:     false,
	}, nil).Once()

	_, err := svc.SignIn(ctx, "omar@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestVerify(t *testing.T) {
	store := new(MockUserStore)
	svc := newAuthFixture(store, new(MockTokenCache), new(MockMailer), new(MockPublisher))

	ctx := context.Background()
	store.On("FindByEmail", ctx, "omar@example.com").Return(&User{
		ID:            "u1",
		Code:          "123456",
		CodeExpiresAt: time.Now().Add(time.Minute),
	}, nil)
	store.On("MarkVerified", ctx, "u1").Return(nil).Once()

	assert.NoError(t, svc.Verify(ctx, "omar@example.com", "123456"))
	assert.ErrorIs(t, svc.Verify(ctx, "omar@example.com", "999999"), ErrCodeInvalid)
}

func TestVerify_ExpiredCode(t *testing.T) {
	store := new(MockUserStore)
	svc := newAuthFixture(store, new(MockTokenCache), new(MockMailer), new(MockPublisher))

	ctx := context.Background()
	store.On("FindByEmail", ctx, "omar@example.com").Return(&User{
		ID:            "u1",
		Code:          "123456",
		CodeExpiresAt: time.Now().Add(-time.Minute),
	}, nil).Once()

	assert.ErrorIs(t, svc.Verify(ctx, "omar@example.com", "123456"), ErrCodeInvalid)
}

func TestSignOut_RevokesTokenAndNotifies(t *testing.T) {
	tokens := new(MockTokenCache)
	svc := newAuthFixture(new(MockUserStore), tokens, new(MockMailer), new(MockPublisher))

	sub := svc.Subscribe()
	defer sub.Unsubscribe()

	ctx := context.Background()
	tokens.On("Invalidate", ctx, "u1").Return(nil).Once()

	assert.NoError(t, svc.SignOut(ctx, "u1"))

	select {
	case n := <-sub.C:
		assert.Equal(t, EventSignedOut, n.Event)
		assert.Nil(t, n.Session)
	case <-time.After(time.Second):
		t.Fatal("expected a signed-out notification")
	}
	tokens.AssertExpectations(t)
}

func TestResetPassword(t *testing.T) {
	store := new(MockUserStore)
	svc := newAuthFixture(store, new(MockTokenCache), new(MockMailer), new(MockPublisher))

	ctx := context.Background()
	store.On("FindByEmail", ctx, "omar@example.com").Return(&User{
		ID:            "u1",
		Code:          "654321",
		CodeExpiresAt: time.Now().Add(time.Minute),
	}, nil)
	store.On("UpdatePassword", ctx, "u1", mock.AnythingOfType("string")).Return(nil).Once()

	assert.NoError(t, svc.ResetPassword(ctx, "omar@example.com", "654321", "newpass1"))
	assert.ErrorIs(t, svc.ResetPassword(ctx, "omar@example.com", "000000", "newpass1"), ErrCodeInvalid)
}

func TestRequestPasswordReset_MailsFreshCode(t *testing.T) {
	store := new(MockUserStore)
	mailer := new(MockMailer)
	svc := newAuthFixture(store, new(MockTokenCache), mailer, new(MockPublisher))

	ctx := context.Background()
	store.On("FindByEmail", ctx, "omar@example.com").Return(&User{ID: "u1"}, nil).Once()
	store.On("SaveVerification", ctx, "u1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	mailer.On("SendPasswordReset", "omar@example.com", mock.AnythingOfType("string")).Return(nil).Once()

	assert.NoError(t, svc.RequestPasswordReset(ctx, "omar@example.com"))
	mailer.AssertExpectations(t)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	svc := newAuthFixture(new(MockUserStore), new(MockTokenCache), new(MockMailer), new(MockPublisher))

	_, err := svc.ParseToken("not-a-token")
	assert.Error(t, err)
}
