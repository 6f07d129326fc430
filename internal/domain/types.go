package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// StakingStatus is the staking state of a node or application.
type StakingStatus int

const (
	Unstaked StakingStatus = iota
	Unstaking
	Staked
)

func (s StakingStatus) String() string {
	switch s {
	case Unstaked:
		return "unstaked"
	case Unstaking:
		return "unstaking"
	case Staked:
		return "staked"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Node is a service node as returned by dispatch or the node query.
type Node struct {
	Address       string        `json:"address"`
	PublicKey     string        `json:"publicKey"`
	ServiceURL    string        `json:"serviceUrl"`
	Chains        []string      `json:"chains"`
	Jailed        bool          `json:"jailed"`
	StakedTokens  *big.Int      `json:"stakedTokens"`
	Status        StakingStatus `json:"status"`
	UnstakingTime string        `json:"unstakingTime"`
}

// WireNode is the snake_case node object used on the RPC interface.
type WireNode struct {
	Address       string          `json:"address"`
	Chains        []string        `json:"chains"`
	Jailed        bool            `json:"jailed"`
	PublicKey     string          `json:"public_key"`
	ServiceURL    string          `json:"service_url"`
	Status        StakingStatus   `json:"status"`
	Tokens        json.RawMessage `json:"tokens"`
	UnstakingTime string          `json:"unstaking_time"`
}

// Node converts the wire form into a Node.
func (w WireNode) Node() (Node, error) {
	tokens, err := ParseAmount(w.Tokens)
	if err != nil {
		return Node{}, fmt.Errorf("node %s tokens: %w", w.Address, err)
	}
	return Node{
		Address:       w.Address,
		PublicKey:     w.PublicKey,
		ServiceURL:    w.ServiceURL,
		Chains:        w.Chains,
		Jailed:        w.Jailed,
		StakedTokens:  tokens,
		Status:        w.Status,
		UnstakingTime: w.UnstakingTime,
	}, nil
}

// SessionHeader identifies the application, chain and height of a session.
type SessionHeader struct {
	ApplicationPubKey  string `json:"applicationPubKey"`
	Chain              string `json:"chain"`
	SessionBlockHeight int64  `json:"sessionBlockHeight"`
}

// Session is an immutable dispatch snapshot. Callers decide when to refresh it.
type Session struct {
	BlockHeight int64         `json:"blockHeight"`
	Header      SessionHeader `json:"header"`
	Key         string        `json:"key"`
	Nodes       []Node        `json:"nodes"`
}

// AAT is the application authentication token delegating relay rights to a client key.
type AAT struct {
	Version              string `json:"version"`
	ClientPublicKey      string `json:"clientPublicKey"`
	ApplicationPublicKey string `json:"applicationPublicKey"`
	ApplicationSignature string `json:"applicationSignature"`
}

// WireAAT is the AAT as embedded in a relay proof.
type WireAAT struct {
	Version      string `json:"version"`
	AppPubKey    string `json:"app_pub_key"`
	ClientPubKey string `json:"client_pub_key"`
	Signature    string `json:"signature"`
}

// Wire returns the proof form of the token.
func (a AAT) Wire() WireAAT {
	return WireAAT{
		Version:      a.Version,
		AppPubKey:    a.ApplicationPublicKey,
		ClientPubKey: a.ClientPublicKey,
		Signature:    a.ApplicationSignature,
	}
}

// RelayPayload is the request forwarded to the blockchain by the service node.
// A nil Headers map encodes as null.
type RelayPayload struct {
	Data    string            `json:"data"`
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Headers map[string]string `json:"headers"`
}

// RelayMeta carries the session height the relay is bound to.
type RelayMeta struct {
	BlockHeight int64 `json:"block_height"`
}

// RelayProof is the signed attestation sent with every relay.
type RelayProof struct {
	Entropy            uint64  `json:"entropy"`
	SessionBlockHeight int64   `json:"session_block_height"`
	ServicerPubKey     string  `json:"servicer_pub_key"`
	Blockchain         string  `json:"blockchain"`
	AAT                WireAAT `json:"aat"`
	Signature          string  `json:"signature"`
	RequestHash        string  `json:"request_hash"`
}

// RelayRequest is the body POSTed to a service node.
type RelayRequest struct {
	Payload RelayPayload `json:"payload"`
	Meta    RelayMeta    `json:"meta"`
	Proof   RelayProof   `json:"proof"`
}

// Account is the exported view of a key manager.
type Account struct {
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// PPK is the portable private key file: a password-encrypted private key.
type PPK struct {
	KDF        string `json:"kdf"`
	Salt       string `json:"salt"`
	SecParam   string `json:"secparam"`
	Hint       string `json:"hint"`
	CipherText string `json:"ciphertext"`
}

// ParseAmount reads a chain amount encoded either as a JSON number or as a
// decimal string. Empty or null input yields zero.
func ParseAmount(raw json.RawMessage) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return new(big.Int), nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}
