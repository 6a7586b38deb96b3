// Package environment carries the deployment stage through context.Context.
//
// Parse turns the APP_ENV value into an Environment and Middleware stores it
// on every request.
package environment
