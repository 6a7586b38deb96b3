package profile

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/avatar"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/validator"
	"github.com/socialdash/dashboard/svc/identity"
	"github.com/socialdash/dashboard/svc/profile"
)

type usernameRequest struct {
	Username string `path:"username" query:"username"`
}

type userIDRequest struct {
	UserID int64 `path:"userId"`
}

type updateRequest struct {
	Username    *string `json:"username" form:"username"`
	DisplayName *string `json:"displayName" form:"displayName"`
	Bio         *string `json:"bio" form:"bio"`
}

type pictureRequest struct {
	Picture *multipart.FileHeader `file:"picture"`
	CropX   float64               `form:"cropX"`
	CropY   float64               `form:"cropY"`
	Scale   float64               `form:"scale"`
}

func (m *Module) byUsername(ctx handler.Context, req usernameRequest) handler.Response {
	return m.found(ctx, func() (*profile.Profile, error) {
		return m.profiles.ByUsername(ctx, req.Username)
	})
}

func (m *Module) byUserID(ctx handler.Context, req userIDRequest) handler.Response {
	return m.found(ctx, func() (*profile.Profile, error) {
		return m.profiles.ByUserID(ctx, req.UserID)
	})
}

// found renders a lookup. A missing profile is 404 with empty data.
func (m *Module) found(ctx handler.Context, lookup func() (*profile.Profile, error)) handler.Response {
	p, err := lookup()
	if err != nil {
		m.log.ErrorContext(ctx, "profile lookup failed", logger.Error(err))
		return handler.JSONError(err)
	}
	if p == nil {
		return handler.JSON(nil, handler.WithJSONStatus(http.StatusNotFound))
	}
	return handler.JSON(newView(p, identity.UIDFromContext(ctx)))
}

func (m *Module) update(ctx handler.Context, req updateRequest) handler.Response {
	uid := identity.UIDFromContext(ctx)
	p, err := m.profiles.Update(ctx, uid, profile.Changes{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return handler.JSONError(handler.ErrNotFound)
	case err != nil:
		if !validator.IsValidationError(err) {
			m.log.ErrorContext(ctx, "profile update failed", logger.UserID(uid), logger.Error(err))
		}
		return handler.JSONError(err)
	}
	return handler.JSON(newView(p, uid))
}

func (m *Module) usernameStatus(ctx handler.Context, req usernameRequest) handler.Response {
	status, err := m.profiles.CheckUsername(ctx, identity.UIDFromContext(ctx), req.Username)
	if err != nil {
		m.log.ErrorContext(ctx, "username check failed", logger.Error(err))
		return handler.JSONError(err)
	}
	return handler.JSON(map[string]profile.UsernameStatus{"status": status})
}

func (m *Module) setPicture(ctx handler.Context, req pictureRequest) handler.Response {
	if req.Picture == nil {
		return handler.JSONError(validator.Field("picture", "required", "Choose a picture to upload"))
	}
	if req.Picture.Size > avatar.MaxUploadBytes {
		return handler.JSONError(validator.Field("picture", "too_large", "The picture must be at most 8 MB"))
	}

	f, err := req.Picture.Open()
	if err != nil {
		return handler.JSONError(errors.Join(handler.ErrBadRequest, err))
	}
	defer f.Close()

	uid := identity.UIDFromContext(ctx)
	url, err := m.profiles.SetPicture(ctx, uid, f, avatar.Crop{OffsetX: req.CropX, OffsetY: req.CropY, Scale: req.Scale})
	switch {
	case errors.Is(err, profile.ErrPictureRejected):
		return handler.JSONError(validator.Field("picture", "invalid", "The file is not a supported image"))
	case errors.Is(err, profile.ErrNotFound):
		return handler.JSONError(handler.ErrNotFound)
	case err != nil:
		m.log.ErrorContext(ctx, "picture upload failed", logger.UserID(uid), logger.Error(err))
		return handler.JSONError(err)
	}
	return handler.JSON(map[string]string{"profilePicture": url})
}

func (m *Module) removePicture(ctx handler.Context, _ struct{}) handler.Response {
	uid := identity.UIDFromContext(ctx)
	if err := m.profiles.RemovePicture(ctx, uid); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return handler.JSONError(handler.ErrNotFound)
		}
		m.log.ErrorContext(ctx, "picture removal failed", logger.UserID(uid), logger.Error(err))
		return handler.JSONError(err)
	}
	return handler.Empty()
}
