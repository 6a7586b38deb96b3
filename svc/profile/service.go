package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/socialdash/dashboard/pkg/avatar"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/validator"
)

// Service implements profile lookups and owner edits on top of a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
	log  *slog.Logger
}

type ServiceOption func(*Service)

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

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, now: time.Now, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateUsername checks the normalized form of username.
func ValidateUsername(username string) error {
	return validator.Apply(validator.ValidUsername("username", username))
}

// ByUID returns the profile or nil when there is none.
func (s *Service) ByUID(ctx context.Context, uid string) (*Profile, error) {
	return found(s.repo.FindByUID(ctx, uid))
}

// ByUsername looks the profile up by normalized username. A missing profile
// is nil with no error.
func (s *Service) ByUsername(ctx context.Context, username string) (*Profile, error) {
	return found(s.repo.FindByUsername(ctx, NormalizeUsername(username)))
}

// ByUserID looks the profile up by its sequential id. A missing profile is
// nil with no error.
func (s *Service) ByUserID(ctx context.Context, userID int64) (*Profile, error) {
	return found(s.repo.FindByUserID(ctx, userID))
}

// UsernameAvailable reports whether the normalized username is unused.
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := s.repo.UsernameTaken(ctx, NormalizeUsername(username))
	return !taken, err
}

// CheckUsername classifies a candidate username for the user uid: unchanged
// when it is their current one, invalid when it breaks the format rule,
// otherwise available or taken.
func (s *Service) CheckUsername(ctx context.Context, uid, candidate string) (UsernameStatus, error) {
	name := NormalizeUsername(candidate)

	if uid != "" {
		current, err := s.repo.FindByUID(ctx, uid)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return "", err
		}
		if err == nil && current.Username == name {
			return StatusUnchanged, nil
		}
	}
	if ValidateUsername(name) != nil {
		return StatusInvalid, nil
	}

	taken, err := s.repo.UsernameTaken(ctx, name)
	if err != nil {
		return "", err
	}
	if taken {
		return StatusTaken, nil
	}
	return StatusAvailable, nil
}

// Create stores a new profile. The username must already be normalized.
func (s *Service) Create(ctx context.Context, p Profile) error {
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	return s.repo.Create(ctx, p)
}

// Update applies an owner edit. Only fields that differ from the stored
// profile are written, together with updatedAt. The username is normalized
// and checked for format, and for uniqueness only when it changes. The
// display name must not be empty. It returns the updated profile.
func (s *Service) Update(ctx context.Context, uid string, in Changes) (*Profile, error) {
	current, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	var diff Changes
	var rules []validator.Rule

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		rules = append(rules, validator.Required("displayName", name), validator.MaxLen("displayName", name, 50))
		if name != current.DisplayName {
			diff.DisplayName = &name
		}
	}
	if in.Username != nil {
		name := NormalizeUsername(*in.Username)
		rules = append(rules, validator.ValidUsername("username", name))
		if name != current.Username {
			diff.Username = &name
		}
	}
	if in.Bio != nil {
		bio := *in.Bio
		rules = append(rules, validator.MaxLen("bio", bio, 160))
		if bio != current.Bio {
			diff.Bio = &bio
		}
	}

	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}
	if diff.Empty() {
		return &current, nil
	}

	if diff.Username != nil {
		taken, err := s.repo.UsernameTaken(ctx, *diff.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validator.Field("username", "taken", ErrUsernameTaken.Error())
		}
	}

	now := s.now()
	if err := s.repo.Merge(ctx, uid, diff, now); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, validator.Field("username", "taken", ErrUsernameTaken.Error())
		}
		return nil, err
	}

	diff.applyTo(&current)
	current.UpdatedAt = now
	s.log.InfoContext(ctx, "profile updated", logger.UserID(current.UserID))
	return &current, nil
}

// SetPicture crops and resizes the uploaded image and stores it as the
// profile picture data URL.
func (s *Service) SetPicture(ctx context.Context, uid string, r io.Reader, crop avatar.Crop) (string, error) {
	url, err := avatar.Process(r, crop)
	if err != nil {
		return "", errors.Join(ErrPictureRejected, err)
	}
	if err := s.repo.Merge(ctx, uid, Changes{ProfilePicture: &url}, s.now()); err != nil {
		return "", err
	}
	return url, nil
}

// RemovePicture clears the profile picture.
func (s *Service) RemovePicture(ctx context.Context, uid string) error {
	empty := ""
	return s.repo.Merge(ctx, uid, Changes{ProfilePicture: &empty}, s.now())
}

// Delete removes the profile document.
func (s *Service) Delete(ctx context.Context, uid string) error {
	return s.repo.Delete(ctx, uid)
}

// NextUserID allocates the next sequential user id.
func (s *Service) NextUserID(ctx context.Context) (int64, error) {
	return s.repo.NextUserID(ctx)
}

func found(p Profile, err error) (*Profile, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
