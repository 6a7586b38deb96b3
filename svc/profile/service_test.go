package profile_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/dashboard/pkg/avatar"
	"github.com/socialdash/dashboard/pkg/validator"
	"github.com/socialdash/dashboard/svc/profile"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// spyRepository records the changes passed to Merge.
type spyRepository struct {
	*profile.MemoryRepository
	merges []profile.Changes
}

func (r *spyRepository) Merge(ctx context.Context, uid string, c profile.Changes, at time.Time) error {
	r.merges = append(r.merges, c)
	return r.MemoryRepository.Merge(ctx, uid, c, at)
}

func newService(t *testing.T) (*profile.Service, *spyRepository) {
	t.Helper()
	repo := &spyRepository{MemoryRepository: profile.NewMemoryRepository()}
	svc := profile.NewService(repo, profile.WithClock(func() time.Time { return now }))

	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, profile.Profile{
		UID: "uid-alice", UserID: 1, Username: "alice", DisplayName: "Alice", Bio: "hi", Email: "alice@example.com",
	}))
	require.NoError(t, svc.Create(ctx, profile.Profile{
		UID: "uid-bob", UserID: 2, Username: "bob", DisplayName: "Bob", Email: "bob@example.com",
	}))
	return svc, repo
}

func ptr(s string) *string { return &s }

func TestService_Lookups(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.ByUsername(ctx, "ALICE")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "uid-alice", p.UID)
	assert.Equal(t, now, p.CreatedAt)

	p, err = svc.ByUserID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "bob", p.Username)

	p, err = svc.ByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = svc.ByUserID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestService_CheckUsername(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		candidate string
		want      profile.UsernameStatus
	}{
		{" Alice ", profile.StatusUnchanged},
		{"bob", profile.StatusTaken},
		{"al", profile.StatusInvalid},
		{".alice", profile.StatusInvalid},
		{"alice_2", profile.StatusAvailable},
	}
	for _, tt := range tests {
		got, err := svc.CheckUsername(ctx, "uid-alice", tt.candidate)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.candidate)
	}

	got, err := svc.CheckUsername(ctx, "", "alice")
	require.NoError(t, err)
	assert.Equal(t, profile.StatusTaken, got, "no current user")
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	t.Run("writes only changed fields", func(t *testing.T) {
		svc, repo := newService(t)

		p, err := svc.Update(context.Background(), "uid-alice", profile.Changes{
			DisplayName: ptr(" Alice "),
			Username:    ptr("Alice"),
			Bio:         ptr("new bio"),
		})
		require.NoError(t, err)
		assert.Equal(t, "new bio", p.Bio)

		require.Len(t, repo.merges, 1)
		assert.Nil(t, repo.merges[0].DisplayName)
		assert.Nil(t, repo.merges[0].Username)
		require.NotNil(t, repo.merges[0].Bio)
		assert.Equal(t, "new bio", *repo.merges[0].Bio)
	})

	t.Run("no changes skips the write", func(t *testing.T) {
		svc, repo := newService(t)

		p, err := svc.Update(context.Background(), "uid-alice", profile.Changes{Bio: ptr("hi")})
		require.NoError(t, err)
		assert.Equal(t, "hi", p.Bio)
		assert.Empty(t, repo.merges)
	})

	t.Run("username is normalized and renamed", func(t *testing.T) {
		svc, _ := newService(t)
		ctx := context.Background()

		p, err := svc.Update(ctx, "uid-alice", profile.Changes{Username: ptr(" Alice.W ")})
		require.NoError(t, err)
		assert.Equal(t, "alice.w", p.Username)
		assert.Equal(t, now, p.UpdatedAt)

		old, err := svc.ByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Nil(t, old)
	})

	t.Run("taken username", func(t *testing.T) {
		svc, repo := newService(t)

		_, err := svc.Update(context.Background(), "uid-alice", profile.Changes{Username: ptr("bob")})
		errs := validator.ExtractValidationErrors(err)
		require.NotNil(t, errs)
		assert.True(t, errs.Has("username"))
		assert.Empty(t, repo.merges)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc, repo := newService(t)

		_, err := svc.Update(context.Background(), "uid-alice", profile.Changes{
			DisplayName: ptr("   "),
			Username:    ptr("a"),
		})
		errs := validator.ExtractValidationErrors(err)
		require.NotNil(t, errs)
		assert.True(t, errs.Has("displayName"))
		assert.True(t, errs.Has("username"))
		assert.Empty(t, repo.merges)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Update(context.Background(), "uid-nobody", profile.Changes{Bio: ptr("x")})
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})
}

func TestService_Picture(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 64))))

	url, err := svc.SetPicture(ctx, "uid-bob", &buf, avatar.Crop{Scale: 1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	p, err := svc.ByUID(ctx, "uid-bob")
	require.NoError(t, err)
	assert.Equal(t, url, p.ProfilePicture)

	require.NoError(t, svc.RemovePicture(ctx, "uid-bob"))
	p, err = svc.ByUID(ctx, "uid-bob")
	require.NoError(t, err)
	assert.Empty(t, p.ProfilePicture)

	_, err = svc.SetPicture(ctx, "uid-bob", strings.NewReader("not an image"), avatar.Crop{})
	assert.ErrorIs(t, err, profile.ErrPictureRejected)
	assert.ErrorIs(t, err, avatar.ErrNotImage)
}

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	repo := profile.NewMemoryRepository()
	ctx := context.Background()

	id1, err := repo.NextUserID(ctx)
	require.NoError(t, err)
	id2, err := repo.NextUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	require.NoError(t, repo.Create(ctx, profile.Profile{UID: "a", Username: "x"}))
	assert.ErrorIs(t, repo.Create(ctx, profile.Profile{UID: "a", Username: "y"}), profile.ErrProfileExists)
	assert.ErrorIs(t, repo.Create(ctx, profile.Profile{UID: "b", Username: "x"}), profile.ErrUsernameTaken)

	taken, err := repo.UsernameTaken(ctx, "x")
	require.NoError(t, err)
	assert.True(t, taken)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.FindByUID(ctx, "a")
	assert.ErrorIs(t, err, profile.ErrNotFound)
	assert.ErrorIs(t, repo.Merge(ctx, "a", profile.Changes{}, now), profile.ErrNotFound)
}
