// Package crypto exposes the primitives used by the relay protocol.
//
// Contents
//
//   - Ed25519 key generation, derivation from a 64-byte private key, signing
//     and verification (GenerateEd25519, KeyFromPrivate, SignEd25519,
//     VerifyEd25519)
//   - Account addresses derived from public keys (AddressFromPublicKey)
//   - Byte-exact JSON encoding and SHA3-256 digests used by relay proofs
//     (MarshalJSON, SHA3Hex)
//   - Hex and base64 helpers
//
// # Notes
//
// Address derivation and proof hashing are part of the wire protocol. Any
// change to them breaks compatibility with existing accounts and nodes.
package crypto
