// Package transport provides the HTTP implementation of domain.Transport.
//
// Every call POSTs a JSON body to a route under the versioned RPC prefix.
// The target is the explicit URL when one is given, a uniformly chosen
// dispatcher for the dispatch route, and the configured RPC URL otherwise.
//
// Each attempt runs under its own timeout; expiry cancels that attempt only.
// Network failures and non-2xx statuses are retried against the same target
// up to SendOptions.RetryAttempts times. When retries run out the last error
// is returned (deadline expiry wrapped in ErrTimeout) or, for a non-2xx
// status, the last response is returned as is for the caller to interpret.
//
// The client keeps no state between calls and is safe for concurrent use.
package transport
