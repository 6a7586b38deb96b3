package profile

import "errors"

var (
	ErrNotFound        = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrProfileExists   = errors.New("profile already exists")
	ErrCounterFailed   = errors.New("failed to allocate user id")
	ErrPictureRejected = errors.New("profile picture rejected")
)
