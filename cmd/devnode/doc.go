// Command devnode runs a local Pocket dispatcher and service node.
//
// It serves /v1/client/dispatch, /v1/client/relay and /v1/query/height on
// one address, so a client configured with that address as both RPC URL and
// dispatcher can dispatch sessions and send relays without a network.
package main
