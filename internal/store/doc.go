// Package store persists the repository configuration record and external
// key files. All writes go through a temp file in the target directory, so a
// crash never leaves a half-written record; initial config creation is
// additionally exclusive so only one of two racing initializers can succeed.
package store
