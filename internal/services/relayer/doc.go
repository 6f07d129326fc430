// Package relayer builds signed relay proofs and submits relays to service
// nodes.
//
// A relay is bound to a session, a service node in that session and an
// application authentication token. The proof is hashed twice: the request
// and the token are each reduced to SHA3-256 digests, then the proof
// pre-image carrying both digests is hashed again and the client key signs
// the raw bytes of that final digest.
package relayer
