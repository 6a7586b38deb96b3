package profile

import (
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Profile is the public document stored for every user, keyed by UID.
type Profile struct {
	UID            string    `bson:"_id" json:"uid"`
	UserID         int64     `bson:"userId" json:"userId"`
	Username       string    `bson:"username" json:"username"`
	DisplayName    string    `bson:"displayName" json:"displayName"`
	Bio            string    `bson:"bio" json:"bio"`
	ProfilePicture string    `bson:"profilePicture" json:"profilePicture"`
	Email          string    `bson:"email" json:"email"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Changes lists the fields of a profile edit. Nil fields are left alone.
type Changes struct {
	Username       *string `json:"username,omitempty"`
	DisplayName    *string `json:"displayName,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// Empty reports whether no field is set.
func (c Changes) Empty() bool {
	return c.Username == nil && c.DisplayName == nil && c.Bio == nil && c.ProfilePicture == nil
}

func (c Changes) applyTo(p *Profile) {
	if c.Username != nil {
		p.Username = *c.Username
	}
	if c.DisplayName != nil {
		p.DisplayName = *c.DisplayName
	}
	if c.Bio != nil {
		p.Bio = *c.Bio
	}
	if c.ProfilePicture != nil {
		p.ProfilePicture = *c.ProfilePicture
	}
}

// UsernameStatus is the result of an as-you-type username check.
type UsernameStatus string

const (
	StatusAvailable UsernameStatus = "available"
	StatusInvalid   UsernameStatus = "invalid"
	StatusTaken     UsernameStatus = "taken"
	// StatusUnchanged means the candidate is the user's current username.
	StatusUnchanged UsernameStatus = "unchanged"
)

var lower = cases.Lower(language.Und)

// NormalizeUsername applies NFKC, trims spaces and lowercases. Usernames
// are stored and compared in this form.
func NormalizeUsername(s string) string {
	return lower.String(strings.TrimSpace(norm.NFKC.String(s)))
}

const fallbackColor = "#9CA3AF"

var palette = [...]string{
	"#EF4444", // red
	"#F97316", // orange
	"#EAB308", // yellow
	"#22C55E", // green
	"#06B6D4", // cyan
	"#3B82F6", // blue
	"#6366F1", // indigo
	"#A855F7", // purple
	"#EC4899", // pink
}

// AvatarColor picks a stable palette color for username, used behind the
// initial when there is no profile picture. The hash runs over UTF-16 code
// units with 32-bit shifts so the browser computes the same color.
func AvatarColor(username string) string {
	if username == "" {
		return fallbackColor
	}

	var hash int64
	for _, c := range utf16.Encode([]rune(username)) {
		shifted := int64(int32(uint32(int32(hash)) << 5))
		hash = int64(c) + shifted - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return palette[hash%int64(len(palette))]
}

// Initial returns the uppercased first character of username, or "?".
func Initial(username string) string {
	for _, r := range username {
		return strings.ToUpper(string(r))
	}
	return "?"
}
