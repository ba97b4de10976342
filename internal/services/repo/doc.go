// Package repo orchestrates repository lifecycle operations: initialization,
// unlocking, read-only inspection and passphrase changes. It resolves the
// encryption mode to an algorithm suite once per operation and hands the
// resolved suite to the chunk cipher; nothing re-dispatches on mode tags.
package repo
