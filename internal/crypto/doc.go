// Package crypto implements the repository's cryptographic core: the
// per-mode algorithm suites, passphrase-based key derivation and wrapping,
// and the per-chunk seal/open operations together with the content-addressing
// hash.
//
// For every keyed mode the chunk-ID hash and the authentication tag use the
// same keyed function, which binds deduplication identity to the repository
// secret: identical plaintext under different repository keys yields
// different chunk IDs.
package crypto
