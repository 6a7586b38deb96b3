// Package profile manages public user profiles: lookups by username or
// sequential id, owner edits that write only changed fields, username
// availability checks, and profile pictures.
//
// Profiles live in the "users" collection keyed by the identity uid;
// sequential user ids come from the counters/users document. MemoryRepository
// backs tests and database-less runs.
package profile
