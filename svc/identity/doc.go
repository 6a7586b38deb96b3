// Package identity owns login identities and sessions.
//
// Service.Signup validates the signup form, hashes the password with bcrypt,
// stores the identity, allocates the sequential user id and writes the
// profile. If the profile cannot be written the identity is deleted again, so
// a failed signup leaves nothing behind. Login, Logout and Authenticate manage
// sessions through a SessionStore: MemorySessionStore for single-process
// deployments and RedisSessionStore when Redis is configured.
//
// Middleware turns the session cookie into a Session in the request context
// and provides the RequireAuth and GuestOnly route guards:
//
//	mw := identity.NewMiddleware(svc)
//	r.Use(mw.Authenticate)
//	r.With(mw.RequireAuth).Get("/api/posts", listPosts)
//	r.With(mw.GuestOnly).Post("/login", login)
package identity
