package pockettest

import (
	"fmt"

	"pocketrelay/internal/domain"
)

// WireNode returns a staked wire node serving chain at serviceURL.
func WireNode(i int, serviceURL, chain string) domain.WireNode {
	return domain.WireNode{
		Address:       fmt.Sprintf("%040x", i+1),
		Chains:        []string{chain},
		Jailed:        false,
		PublicKey:     fmt.Sprintf("%064x", i+1),
		ServiceURL:    serviceURL,
		Status:        domain.Staked,
		Tokens:        []byte(`"15000000000"`),
		UnstakingTime: "0001-01-01T00:00:00Z",
	}
}

// DispatchResponse is the body a dispatcher returns for a session.
type DispatchResponse struct {
	BlockHeight int64           `json:"block_height"`
	Session     DispatchSession `json:"session"`
}

// DispatchSession is the session object inside DispatchResponse.
type DispatchSession struct {
	Header DispatchHeader    `json:"header"`
	Key    string            `json:"key"`
	Nodes  []domain.WireNode `json:"nodes"`
}

// DispatchHeader is the wire session header.
type DispatchHeader struct {
	AppPublicKey  string `json:"app_public_key"`
	Chain         string `json:"chain"`
	SessionHeight int64  `json:"session_height"`
}

// Dispatch builds a dispatch response with one node per service URL.
func Dispatch(appPubKey, chain string, height int64, serviceURLs ...string) DispatchResponse {
	nodes := make([]domain.WireNode, len(serviceURLs))
	for i, u := range serviceURLs {
		nodes[i] = WireNode(i, u, chain)
	}
	return DispatchResponse{
		BlockHeight: height + 2,
		Session: DispatchSession{
			Header: DispatchHeader{AppPublicKey: appPubKey, Chain: chain, SessionHeight: height},
			Key:    "c2Vzc2lvbi1rZXk=",
			Nodes:  nodes,
		},
	}
}

// Typed converts a dispatch response into the typed session the client
// is expected to produce from it.
func (d DispatchResponse) Typed() domain.Session {
	nodes := make([]domain.Node, len(d.Session.Nodes))
	for i, w := range d.Session.Nodes {
		n, err := w.Node()
		if err != nil {
			panic(err)
		}
		nodes[i] = n
	}
	return domain.Session{
		BlockHeight: d.BlockHeight,
		Header: domain.SessionHeader{
			ApplicationPubKey:  d.Session.Header.AppPublicKey,
			Chain:              d.Session.Header.Chain,
			SessionBlockHeight: d.Session.Header.SessionHeight,
		},
		Key:   d.Session.Key,
		Nodes: nodes,
	}
}
