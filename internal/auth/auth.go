// Package auth implements the account and session collaborator: credential
// checks, email verification, JWT session tokens, and the session-change
// subscription consumed by the application core.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrCodeInvalid        = errors.New("verification code is invalid or expired")
)

const (
	sessionTTL     = 24 * time.Hour
	codeTTL        = 15 * time.Minute
	subjectSignUps = "auth.user.registered"
)

// User is the raw auth identity, separate from the application profile.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Verified      bool
	Code          string
	CodeExpiresAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session is an established identity plus its bearer token.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// Event tags a session-change notification.
type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

// Notification is delivered to subscribers on every session change. Session
// is nil for EventSignedOut.
type Notification struct {
	Event   Event
	Session *Session
}

// Claims is the JWT payload shared with the HTTP auth middleware.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// UserStore persists auth identities.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	SaveVerification(ctx context.Context, id, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenCache tracks issued session tokens so sign-out can revoke them.
type TokenCache interface {
	Cache(ctx context.Context, userID, token string, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
}

// RegisteredEvent is published to the bus on sign-up; the profile
// provisioner consumes it to create the matching profile row.
type RegisteredEvent struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type Service struct {
	store     UserStore
	tokens    TokenCache
	mailer    domain.Mailer
	publisher domain.Publisher
	jwtSecret []byte
	logger    *zap.Logger

	mu      sync.Mutex
	subs    map[int]chan Notification
	nextSub int
}

func NewService(store UserStore, tokens TokenCache, mailer domain.Mailer, publisher domain.Publisher, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		tokens:    tokens,
		mailer:    mailer,
		publisher: publisher,
		jwtSecret: []byte(jwtSecret),
		logger:    logger.Named("auth"),
		subs:      make(map[int]chan Notification),
	}
}

// SignUp creates an unverified account, emails the verification code, and
// publishes the registration event that provisions the profile row.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now()
	u := &User{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		Verified:      false,
		Code:          newCode(),
		CodeExpiresAt: now.Add(codeTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		s.logger.Warn("sign-up failed", zap.String("email", email), zap.Error(err))
		return "", err
	}

	if err := s.mailer.SendVerificationCode(email, u.Code); err != nil {
		s.logger.Error("failed to send verification code", zap.String("email", email), zap.Error(err))
		return "", fmt.Errorf("send verification code: %w", err)
	}

	evt := RegisteredEvent{UserID: u.ID, Name: name, Email: email}
	if err := s.publisher.Publish(ctx, subjectSignUps, evt); err != nil {
		// The profile trigger will not fire; the session holder's
		// fail-closed path covers the resulting gap on first sign-in.
		s.logger.Error("failed to publish registration event", zap.String("user_id", u.ID), zap.Error(err))
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID), zap.String("email", email))
	return u.ID, nil
}

// SignIn checks credentials, issues a session token, and notifies
// subscribers.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Cache(ctx, u.ID, token, sessionTTL); err != nil {
		s.logger.Warn("failed to cache session token", zap.String("user_id", u.ID), zap.Error(err))
	}

	sess := &Session{UserID: u.ID, Email: u.Email, Token: token}
	s.notify(Notification{Event: EventSignedIn, Session: sess})
	s.logger.Info("user signed in", zap.String("user_id", u.ID))
	return sess, nil
}

// Verify confirms the account with the emailed code.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.Code == "" || u.Code != code || time.Now().After(u.CodeExpiresAt) {
		return ErrCodeInvalid
	}
	return s.store.MarkVerified(ctx, u.ID)
}

// SignOut revokes the token and notifies subscribers with a nil session.
func (s *Service) SignOut(ctx context.Context, userID string) error {
	if err := s.tokens.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate session token", zap.String("user_id", userID), zap.Error(err))
	}
	s.notify(Notification{Event: EventSignedOut})
	s.logger.Info("user signed out", zap.String("user_id", userID))
	return nil
}

// RequestPasswordReset emails a fresh code the reset form will accept.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	code := newCode()
	if err := s.store.SaveVerification(ctx, u.ID, code, time.Now().Add(codeTTL)); err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(email, code)
}

// ResetPassword sets a new password after validating the emailed code.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.Code == "" || u.Code != code || time.Now().After(u.CodeExpiresAt) {
		return ErrCodeInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, u.ID, string(hash))
}

// ParseToken validates a bearer token and returns its user id.
func (s *Service) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", errors.New("token is not valid")
	}
	return claims.UserID, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func newCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing is unrecoverable for code generation
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
