package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/validator"
	"github.com/socialdash/dashboard/svc/identity"
	"github.com/socialdash/dashboard/svc/profile"
)

var errInvalidCredentials = handler.NewHTTPError(http.StatusUnauthorized, "invalid_credentials")

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type signupRequest struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Username        string `json:"username" form:"username"`
	DisplayName     string `json:"displayName" form:"displayName"`
}

type usernameRequest struct {
	Username string `query:"username"`
}

type emailRequest struct {
	Email string `query:"email"`
}

type availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func (m *Module) login(ctx handler.Context, req loginRequest) handler.Response {
	if err := validator.Apply(
		validator.Required("email", req.Email),
		validator.Required("password", req.Password),
	); err != nil {
		return handler.JSONError(err)
	}

	sess, err := m.identity.Login(ctx, req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return handler.JSONError(errInvalidCredentials)
	}
	if err != nil {
		m.log.ErrorContext(ctx, "login failed", logger.Error(err))
		return handler.JSONError(err)
	}

	m.log.InfoContext(ctx, "user logged in", logger.UserID(sess.UID))
	return m.signedIn(ctx, sess)
}

func (m *Module) signup(ctx handler.Context, req signupRequest) handler.Response {
	sess, err := m.identity.Signup(ctx, identity.SignupInput(req))
	if err != nil {
		if !validator.IsValidationError(err) {
			m.log.ErrorContext(ctx, "signup failed", logger.Error(err))
		}
		return handler.JSONError(err)
	}
	return m.signedIn(ctx, sess)
}

func (m *Module) logout(ctx handler.Context, _ struct{}) handler.Response {
	if err := m.identity.Logout(ctx, m.guard.Token(ctx.Request())); err != nil {
		m.log.ErrorContext(ctx, "logout failed", logger.Error(err))
	}
	m.guard.ClearCookie(ctx.ResponseWriter())
	return handler.Redirect("/login")
}

func (m *Module) usernameAvailable(ctx handler.Context, req usernameRequest) handler.Response {
	username := profile.NormalizeUsername(req.Username)
	if err := profile.ValidateUsername(username); err != nil {
		return handler.JSON(availability{Reason: string(profile.StatusInvalid)})
	}
	ok, err := m.usernames.UsernameAvailable(ctx, username)
	if err != nil {
		m.log.ErrorContext(ctx, "username check failed", logger.Error(err))
		return handler.JSONError(err)
	}
	if !ok {
		return handler.JSON(availability{Reason: string(profile.StatusTaken)})
	}
	return handler.JSON(availability{Available: true})
}

func (m *Module) emailAvailable(ctx handler.Context, req emailRequest) handler.Response {
	email := identity.NormalizeEmail(req.Email)
	if err := validator.Apply(validator.ValidEmail("email", email)); err != nil {
		return handler.JSON(availability{Reason: "invalid"})
	}
	ok, err := m.identity.EmailAvailable(ctx, email)
	if err != nil {
		m.log.ErrorContext(ctx, "email check failed", logger.Error(err))
		return handler.JSONError(err)
	}
	if !ok {
		return handler.JSON(availability{Reason: "taken"})
	}
	return handler.JSON(availability{Available: true})
}

// signedIn sets the session cookie and sends the user home. JSON clients get
// the redirect target in the body instead of a 303.
func (m *Module) signedIn(ctx handler.Context, sess identity.Session) handler.Response {
	m.guard.SetCookie(ctx.ResponseWriter(), sess)
	if wantsJSON(ctx.Request()) {
		return handler.JSON(map[string]string{"uid": sess.UID, "redirect": m.home})
	}
	return handler.Redirect(m.home)
}

func wantsJSON(r *http.Request) bool {
	return !handler.IsDataStar(r) && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
