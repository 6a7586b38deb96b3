// Package profile serves profile lookups and owner edits over HTTP.
//
// Lookups by username (/u/{username}) and sequential id (/profile/{userId})
// return 404 with empty data when no profile exists. Edits, username checks
// and picture uploads act on the profile of the signed-in user. Uploaded
// pictures are cropped to a square JPEG by pkg/avatar and stored inline as a
// data URL.
package profile
