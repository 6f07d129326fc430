package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/transport"
)

// ErrDispatchersFailure is returned when no dispatcher is configured or none
// produced a usable session.
var ErrDispatchersFailure = errors.New("dispatchers failed to return a session")

// Client asks dispatchers for sessions.
type Client struct {
	transport domain.Transport
	signer    domain.Signer
}

// New constructs a Client. signer may be nil, in which case every request
// must name its application public key.
func New(t domain.Transport, signer domain.Signer) *Client {
	return &Client{transport: t, signer: signer}
}

// GetSessionRequest selects the session to dispatch.
type GetSessionRequest struct {
	// ApplicationPubKey defaults to the attached signer's public key.
	ApplicationPubKey string
	Chain             string
	// SessionBlockHeight of zero asks for the current session.
	SessionBlockHeight int64
	Options            domain.SendOptions
}

type dispatchRequest struct {
	AppPublicKey  string `json:"app_public_key"`
	Chain         string `json:"chain"`
	SessionHeight int64  `json:"session_height"`
}

type dispatchResponse struct {
	BlockHeight int64 `json:"block_height"`
	Session     *struct {
		Header struct {
			AppPublicKey  string `json:"app_public_key"`
			Chain         string `json:"chain"`
			SessionHeight int64  `json:"session_height"`
		} `json:"header"`
		Key   string            `json:"key"`
		Nodes []domain.WireNode `json:"nodes"`
	} `json:"session"`
}

// GetSession dispatches a new session for req.Chain.
func (c *Client) GetSession(ctx context.Context, req GetSessionRequest) (domain.Session, error) {
	if !c.transport.HasDispatchers() {
		return domain.Session{}, fmt.Errorf("%w: no dispatchers configured", ErrDispatchersFailure)
	}
	appKey := req.ApplicationPubKey
	if appKey == "" && c.signer != nil && c.signer.IsConnected() {
		appKey = c.signer.PublicKey()
	}

	resp, err := c.transport.Send(ctx, domain.ClientDispatch, dispatchRequest{
		AppPublicKey:  appKey,
		Chain:         req.Chain,
		SessionHeight: req.SessionBlockHeight,
	}, "", req.Options)
	if err != nil {
		if errors.Is(err, transport.ErrTimeout) {
			return domain.Session{}, err
		}
		return domain.Session{}, fmt.Errorf("%w: %v", ErrDispatchersFailure, err)
	}
	if !resp.OK() {
		return domain.Session{}, fmt.Errorf("%w: dispatch status %d: %s", ErrDispatchersFailure, resp.StatusCode, resp.Body)
	}
	return decodeSession(resp.Body)
}

func decodeSession(body []byte) (domain.Session, error) {
	var out dispatchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.Session{}, fmt.Errorf("%w: decode dispatch response: %v", ErrDispatchersFailure, err)
	}
	if out.Session == nil {
		return domain.Session{}, fmt.Errorf("%w: dispatch response has no session", ErrDispatchersFailure)
	}

	nodes := make([]domain.Node, 0, len(out.Session.Nodes))
	for _, w := range out.Session.Nodes {
		n, err := w.Node()
		if err != nil {
			return domain.Session{}, fmt.Errorf("%w: %v", ErrDispatchersFailure, err)
		}
		nodes = append(nodes, n)
	}
	return domain.Session{
		BlockHeight: out.BlockHeight,
		Header: domain.SessionHeader{
			ApplicationPubKey:  out.Session.Header.AppPublicKey,
			Chain:              out.Session.Header.Chain,
			SessionBlockHeight: out.Session.Header.SessionHeight,
		},
		Key:   out.Session.Key,
		Nodes: nodes,
	}, nil
}
