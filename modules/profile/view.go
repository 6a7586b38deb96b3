package profile

import (
	"time"

	"github.com/socialdash/dashboard/svc/profile"
)

// View is the JSON shape of a profile. Email is only included for the owner.
type View struct {
	UID            string    `json:"uid"`
	UserID         int64     `json:"userId"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"displayName"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Email          string    `json:"email,omitempty"`
	AvatarColor    string    `json:"avatarColor"`
	Initial        string    `json:"initial"`
	IsOwner        bool      `json:"isOwner"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newView(p *profile.Profile, viewerUID string) View {
	v := View{
		UID:            p.UID,
		UserID:         p.UserID,
		Username:       p.Username,
		DisplayName:    p.DisplayName,
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
		AvatarColor:    profile.AvatarColor(p.Username),
		Initial:        profile.Initial(p.Username),
		IsOwner:        p.UID == viewerUID,
		CreatedAt:      p.CreatedAt,
	}
	if v.IsOwner {
		v.Email = p.Email
	}
	return v
}
