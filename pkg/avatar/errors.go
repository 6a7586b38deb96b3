package avatar

import "errors"

var (
	ErrNotImage = errors.New("avatar: not a supported image")
	ErrTooLarge = errors.New("avatar: image too large")
)
