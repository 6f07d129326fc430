// Package devnode is a single-process stand-in for a Pocket dispatcher and
// service node, for exercising clients locally.
//
// It dispatches a session containing only itself, checks every relay proof
// it receives (request hash, client signature, session height and entropy
// reuse) and answers with the pocketcore error codes a real node would use.
// Accepted relays are echoed back signed with the node key.
package devnode
