// Package memzero erases secret buffers. Erasure is best-effort: Go gives no
// guarantee about copies the runtime may have made, but clearing the buffers
// we control shortens the window in which key material is resident.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros in a constant-time friendly way.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
