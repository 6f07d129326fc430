package relayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/pocketerr"
	"pocketrelay/internal/transport"
)

var (
	// ErrEmptyKeyManager is returned when no connected signer is attached.
	ErrEmptyKeyManager = errors.New("a signer is required to send a relay")

	// ErrNoServiceNode is returned when no node was given and the session has none.
	ErrNoServiceNode = errors.New("no service node to relay to")

	// ErrServiceNodeNotInSession is returned when the chosen node is not part of the session.
	ErrServiceNodeNotInSession = errors.New("service node is not in the current session")

	// ErrRelayFailure is returned for transport failures other than timeouts
	// and for relay responses that cannot be read.
	ErrRelayFailure = errors.New("relay failed")
)

// Logger is the subset of a leveled logger the relayer writes to.
type Logger interface {
	Debugf(msg string, v ...interface{})
}

// Relayer signs and submits relays on behalf of one client key.
type Relayer struct {
	signer    domain.Signer
	transport domain.Transport
	entropy   func() (uint64, error)
	log       Logger
}

// Option configures a Relayer.
type Option func(*Relayer)

// WithEntropy replaces the nonce source. Every call must return a fresh value.
func WithEntropy(f func() (uint64, error)) Option {
	return func(r *Relayer) { r.entropy = f }
}

// WithLogger sets the logger used for relay timings.
func WithLogger(l Logger) Option {
	return func(r *Relayer) { r.log = l }
}

// New constructs a Relayer. signer may be nil; Relay then fails with
// ErrEmptyKeyManager.
func New(signer domain.Signer, t domain.Transport, opts ...Option) *Relayer {
	r := &Relayer{signer: signer, transport: t, entropy: Entropy}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Request describes one relay.
type Request struct {
	Blockchain string
	Data       string
	AAT        domain.AAT
	Session    domain.Session
	Options    domain.SendOptions
	Headers    map[string]string
	Method     string
	Path       string
	// Node pins the service node. It must still belong to Session.
	Node *domain.Node
}

// Result is a validated relay response with the proof that paid for it.
type Result struct {
	Response    json.RawMessage   `json:"response"`
	Proof       domain.RelayProof `json:"proof"`
	ServiceNode domain.Node       `json:"serviceNode"`
}

// Relay builds, signs and submits req and returns the unwrapped response.
// Preconditions are checked before any network call.
func (r *Relayer) Relay(ctx context.Context, req Request) (*Result, error) {
	if r.signer == nil || !r.signer.IsConnected() {
		return nil, ErrEmptyKeyManager
	}
	start := time.Now()

	var node domain.Node
	if req.Node != nil {
		node = *req.Node
	} else {
		n, ok := GetRandomSessionNode(req.Session)
		if !ok {
			return nil, ErrNoServiceNode
		}
		node = n
	}
	if !IsNodeInSession(req.Session, node) {
		return nil, fmt.Errorf("%w: %s", ErrServiceNodeNotInSession, node.PublicKey)
	}

	relay, err := r.build(req, node)
	if err != nil {
		return nil, err
	}
	r.logf("relay to %s on %s built in %s", node.Address, req.Blockchain, time.Since(start))

	resp, err := r.transport.Send(ctx, domain.ClientRelay, relay, node.ServiceURL, req.Options)
	if err != nil {
		if errors.Is(err, transport.ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRelayFailure, err)
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("%w: status %d: undecodable body", ErrRelayFailure, resp.StatusCode)
	}
	out, err := pocketerr.ValidateRelayResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	r.logf("relay to %s on %s answered in %s", node.Address, req.Blockchain, time.Since(start))
	return &Result{Response: out, Proof: relay.Proof, ServiceNode: node}, nil
}

func (r *Relayer) build(req Request, node domain.Node) (domain.RelayRequest, error) {
	payload := domain.RelayPayload{
		Data:    req.Data,
		Method:  req.Method,
		Path:    req.Path,
		Headers: req.Headers,
	}
	height := req.Session.Header.SessionBlockHeight
	meta := domain.RelayMeta{BlockHeight: height}

	requestHash, err := HashRequest(payload, meta)
	if err != nil {
		return domain.RelayRequest{}, fmt.Errorf("hash request: %w", err)
	}
	entropy, err := r.entropy()
	if err != nil {
		return domain.RelayRequest{}, fmt.Errorf("draw entropy: %w", err)
	}
	digest, err := ProofBytes(ProofInput{
		Entropy:            entropy,
		SessionBlockHeight: height,
		ServicerPubKey:     node.PublicKey,
		Blockchain:         req.Blockchain,
		AAT:                req.AAT,
		RequestHash:        requestHash,
	})
	if err != nil {
		return domain.RelayRequest{}, fmt.Errorf("hash proof: %w", err)
	}
	sig, err := r.signer.Sign(digest)
	if err != nil {
		return domain.RelayRequest{}, fmt.Errorf("sign proof: %w", err)
	}

	return domain.RelayRequest{
		Payload: payload,
		Meta:    meta,
		Proof: domain.RelayProof{
			Entropy:            entropy,
			SessionBlockHeight: height,
			ServicerPubKey:     node.PublicKey,
			Blockchain:         req.Blockchain,
			AAT:                req.AAT.Wire(),
			Signature:          sig,
			RequestHash:        requestHash,
		},
	}, nil
}

func (r *Relayer) logf(msg string, v ...interface{}) {
	if r.log != nil {
		r.log.Debugf(msg, v...)
	}
}
