// Package account serves login, signup and logout on top of svc/identity.
//
// Login and signup accept JSON or form bodies. On success they set the
// session cookie and redirect to the home path; JSON clients receive the
// target in the body. The availability endpoints back live form feedback:
//
//	GET /signup/username-available?username=alice  -> {"available":false,"reason":"taken"}
package account
