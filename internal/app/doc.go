// Package app wires application dependencies for the CLI.
//
// It loads Config from defaults, the YAML config file, .env files and
// POCKET_* environment variables, then builds the transport, key store and
// protocol clients exposed through Wire. App layers account management on
// top of the key store.
package app
