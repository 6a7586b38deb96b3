package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/socialdash/dashboard/pkg/validator"
	"github.com/socialdash/dashboard/svc/identity"
	"github.com/socialdash/dashboard/svc/profile"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type fixture struct {
	svc      *identity.Service
	users    *identity.MemoryUserRepository
	sessions *identity.MemorySessionStore
	profiles *profile.Service
	clock    *clock
}

func newFixture(t *testing.T, wrap func(identity.Profiles) identity.Profiles) fixture {
	t.Helper()
	c := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	users := identity.NewMemoryUserRepository()
	sessions := identity.NewMemorySessionStore(c.Now)
	profiles := profile.NewService(profile.NewMemoryRepository(), profile.WithClock(c.Now))

	var p identity.Profiles = profiles
	if wrap != nil {
		p = wrap(profiles)
	}
	svc := identity.NewService(users, sessions, p,
		identity.WithClock(c.Now),
		identity.WithBcryptCost(bcrypt.MinCost),
		identity.WithSessionTTL(time.Hour),
	)
	return fixture{svc: svc, users: users, sessions: sessions, profiles: profiles, clock: c}
}

func validSignup() identity.SignupInput {
	return identity.SignupInput{
		Email:           "  Alice@Example.com ",
		Password:        "Sup3r$ecret",
		ConfirmPassword: "Sup3r$ecret",
		Username:        "Alice_01",
		DisplayName:     " Alice ",
	}
}

func TestService_Signup(t *testing.T) {
	t.Parallel()

	t.Run("creates identity, profile and session", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()

		sess, err := f.svc.Signup(ctx, validSignup())
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, f.clock.now.Add(time.Hour), sess.ExpiresAt)

		user, err := f.users.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, sess.UID, user.UID)
		assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("Sup3r$ecret")))

		p, err := f.profiles.ByUID(ctx, sess.UID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "alice_01", p.Username)
		assert.Equal(t, "Alice", p.DisplayName)
		assert.Equal(t, int64(1), p.UserID)
		assert.Equal(t, "alice@example.com", p.Email)

		got, err := f.svc.Authenticate(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess, got)
	})

	t.Run("assigns sequential user ids", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()

		first, err := f.svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		in := validSignup()
		in.Email, in.Username = "bob@example.com", "bob"
		second, err := f.svc.Signup(ctx, in)
		require.NoError(t, err)

		p1, _ := f.profiles.ByUID(ctx, first.UID)
		p2, _ := f.profiles.ByUID(ctx, second.UID)
		assert.Equal(t, int64(1), p1.UserID)
		assert.Equal(t, int64(2), p2.UserID)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.svc.Signup(context.Background(), identity.SignupInput{
			Email:           "not-an-email",
			Password:        "short",
			ConfirmPassword: "other",
			Username:        ".x",
		})
		errs := validator.ExtractValidationErrors(err)
		require.NotNil(t, errs)
		for _, field := range []string{"email", "password", "confirmPassword", "displayName", "username"} {
			assert.True(t, errs.Has(field), field)
		}
	})

	t.Run("taken username is a field error", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()
		_, err := f.svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		in := validSignup()
		in.Email = "other@example.com"
		in.Username = "ALICE_01"
		_, err = f.svc.Signup(ctx, in)

		assert.ErrorIs(t, err, identity.ErrUsernameTaken)
		assert.True(t, validator.ExtractValidationErrors(err).Has("username"))
	})

	t.Run("taken email is a field error", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()
		_, err := f.svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		in := validSignup()
		in.Username = "someone"
		_, err = f.svc.Signup(ctx, in)

		assert.ErrorIs(t, err, identity.ErrEmailTaken)
		assert.True(t, validator.ExtractValidationErrors(err).Has("email"))
	})
}

type failingProfiles struct {
	identity.Profiles
	err error
}

func (f failingProfiles) Create(context.Context, profile.Profile) error { return f.err }

func TestService_Signup_RollsBackIdentity(t *testing.T) {
	t.Parallel()

	boom := errors.New("document store unavailable")
	f := newFixture(t, func(p identity.Profiles) identity.Profiles {
		return failingProfiles{Profiles: p, err: boom}
	})
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, validSignup())
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrSignupRolledBack)
	assert.ErrorIs(t, err, boom)

	_, err = f.users.FindByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)

	available, err := f.svc.EmailAvailable(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	t.Run("correct credentials open a session", func(t *testing.T) {
		sess, err := f.svc.Login(ctx, "ALICE@example.com", "Sup3r$ecret")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, "alice@example.com", "nope")
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.Login(ctx, "nobody@example.com", "Sup3r$ecret")
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}

func TestService_SessionLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	sess, err := f.svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	t.Run("logout ends the session", func(t *testing.T) {
		s, err := f.svc.Login(ctx, "alice@example.com", "Sup3r$ecret")
		require.NoError(t, err)
		require.NoError(t, f.svc.Logout(ctx, s.Token))

		_, err = f.svc.Authenticate(ctx, s.Token)
		assert.ErrorIs(t, err, identity.ErrSessionNotFound)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := f.svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, identity.ErrSessionNotFound)
		assert.NoError(t, f.svc.Logout(ctx, ""))
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		f.clock.now = f.clock.now.Add(2 * time.Hour)
		_, err := f.svc.Authenticate(ctx, sess.Token)
		assert.ErrorIs(t, err, identity.ErrSessionNotFound)
	})
}

func TestMemoryUserRepository(t *testing.T) {
	t.Parallel()

	repo := identity.NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, identity.User{UID: "u1", Email: "a@example.com"}))
	assert.ErrorIs(t, repo.Create(ctx, identity.User{UID: "u2", Email: "a@example.com"}), identity.ErrEmailTaken)

	u, err := repo.FindByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.FindByUID(ctx, "u1")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
}
