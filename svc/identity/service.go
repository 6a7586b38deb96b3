package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/validator"
	"github.com/socialdash/dashboard/svc/profile"
)

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 24 * time.Hour

// Profiles is the part of the profile service signup depends on.
type Profiles interface {
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	NextUserID(ctx context.Context) (int64, error)
	Create(ctx context.Context, p profile.Profile) error
	Delete(ctx context.Context, uid string) error
}

// SignupInput is the signup form.
type SignupInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Username        string `json:"username"`
	DisplayName     string `json:"displayName"`
}

// Service authenticates users and manages their sessions.
type Service struct {
	users    UserRepository
	sessions SessionStore
	profiles Profiles
	ttl      time.Duration
	cost     int
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
}

type ServiceOption func(*Service)

func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithBcryptCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(users UserRepository, sessions SessionStore, profiles Profiles, opts ...ServiceOption) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		profiles: profiles,
		ttl:      DefaultSessionTTL,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup validates the form, creates the identity and its profile, and opens
// a session. When the profile cannot be written the identity is deleted again.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Username = profile.NormalizeUsername(in.Username)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	rules := []validator.Rule{validator.ValidEmail("email", in.Email)}
	rules = append(rules, validator.StrongPassword("password", in.Password)...)
	rules = append(rules,
		validator.Equal("confirmPassword", in.ConfirmPassword, in.Password, "Passwords do not match"),
		validator.Required("displayName", in.DisplayName),
		validator.ValidUsername("username", in.Username),
	)
	if err := validator.Apply(rules...); err != nil {
		return Session{}, err
	}

	available, err := s.profiles.UsernameAvailable(ctx, in.Username)
	if err != nil {
		return Session{}, fmt.Errorf("identity: check username: %w", err)
	}
	if !available {
		return Session{}, errors.Join(ErrUsernameTaken,
			validator.Field("username", "taken", "This username is already taken"))
	}

	free, err := s.EmailAvailable(ctx, in.Email)
	if err != nil {
		return Session{}, err
	}
	if !free {
		return Session{}, errors.Join(ErrEmailTaken,
			validator.Field("email", "taken", "This email is already registered"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Session{}, fmt.Errorf("identity: hash password: %w", err)
	}

	now := s.now()
	user := User{UID: s.newID(), Email: in.Email, PasswordHash: hash, CreatedAt: now}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Session{}, errors.Join(err,
				validator.Field("email", "taken", "This email is already registered"))
		}
		return Session{}, err
	}

	if err := s.createProfile(ctx, user, in); err != nil {
		if derr := s.users.Delete(ctx, user.UID); derr != nil {
			s.log.ErrorContext(ctx, "signup rollback failed",
				logger.UserID(user.UID), logger.Error(derr))
			err = errors.Join(err, derr)
		}
		return Session{}, errors.Join(ErrSignupRolledBack, err)
	}

	s.log.InfoContext(ctx, "user signed up", logger.UserID(user.UID), logger.Username(in.Username))
	return s.openSession(ctx, user.UID)
}

func (s *Service) createProfile(ctx context.Context, user User, in SignupInput) error {
	userID, err := s.profiles.NextUserID(ctx)
	if err != nil {
		return err
	}
	err = s.profiles.Create(ctx, profile.Profile{
		UID:         user.UID,
		UserID:      userID,
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Email:       user.Email,
	})
	if errors.Is(err, profile.ErrUsernameTaken) {
		return errors.Join(ErrUsernameTaken, err,
			validator.Field("username", "taken", "This username is already taken"))
	}
	return err
}

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.openSession(ctx, user.UID)
}

// Logout ends the session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrSessionNotFound
	}
	return s.sessions.Get(ctx, token)
}

// EmailAvailable reports whether no identity uses the normalized email.
func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	switch {
	case errors.Is(err, ErrUserNotFound):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("identity: check email: %w", err)
	default:
		return false, nil
	}
}

func (s *Service) openSession(ctx context.Context, uid string) (Session, error) {
	sess := Session{Token: s.newID(), UID: uid, ExpiresAt: s.now().Add(s.ttl)}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}
