package domain

import (
	"context"
	"time"
)

// Signer holds a signing key and produces hex signatures over hex payloads.
type Signer interface {
	Sign(payloadHex string) (string, error)
	PublicKey() string
	Address() string
	IsConnected() bool
}

// SendOptions tunes a single transport call.
type SendOptions struct {
	// Timeout bounds each attempt on its own. Zero means the transport default.
	Timeout time.Duration
	// RetryAttempts is the number of retries after the first attempt.
	RetryAttempts int
}

// Response is the raw result of the last transport attempt.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool { return r.StatusCode/100 == 2 }

// Transport posts JSON bodies to RPC routes.
//
// An empty target resolves to a random dispatcher for ClientDispatch and to
// the configured RPC URL otherwise.
type Transport interface {
	Send(ctx context.Context, route Route, body any, target string, opts SendOptions) (*Response, error)
	HasDispatchers() bool
}

// PPKStore persists portable private keys under a name.
type PPKStore interface {
	SavePPK(name string, ppk PPK) error
	LoadPPK(name string) (PPK, error)
	ListPPKs() ([]string, error)
}
