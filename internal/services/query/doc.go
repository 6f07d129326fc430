// Package query reads chain state and submits signed transactions through
// the RPC URL of a Pocket node.
package query
