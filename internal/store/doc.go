// Package store persists portable private keys (PPKs) by account name.
//
// FileStore keeps one JSON file per account under a directory; KeyringStore
// keeps the same JSON in the operating system keyring. Neither store ever
// sees a plaintext key: PPKs are encrypted before they arrive here.
package store
