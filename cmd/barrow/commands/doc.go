// Package commands defines the barrow CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init               Initialize a new repository
//   - info               Print repository configuration
//   - change-passphrase  Rewrap the repository key under a new passphrase
//
// # Implementation
//
// The root command builds a dependency graph (stores, repository service)
// before any subcommand runs, so handlers share one app context. The
// passphrase comes from --passphrase, $BARROW_PASSPHRASE (optionally via a
// .env file) or an interactive no-echo prompt, in that order.
package commands
