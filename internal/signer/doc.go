// Package signer holds an account's Ed25519 key pair and signs relay proofs
// and other payloads with it.
//
// A KeyManager is created from a fresh random key (CreateRandom), from a
// 64-byte hex private key (FromPrivateKey) or from a Portable Private Key
// file (FromPPK). It is immutable after construction and safe for concurrent
// use.
//
// # PPK format
//
// A PPK is a JSON object
//
//	{"kdf":"scrypt","salt":"<hex>","secparam":"12","hint":"...","ciphertext":"<base64>"}
//
// The key is scrypt(password, salt, N=32768, r=8, p=1, 32 bytes). The AES-256-GCM
// nonce is the leading secparam bytes of that key. The plaintext is the
// private key as a hex string; ciphertext holds ct‖tag.
package signer
