package relayer

import (
	"crypto/rand"
	"math/big"
	rnd "math/rand/v2"

	"pocketrelay/internal/crypto"
	"pocketrelay/internal/domain"
)

// maxEntropy keeps entropy inside the range JSON numbers represent exactly.
var maxEntropy = new(big.Int).Lsh(big.NewInt(1), 53)

// Entropy draws a fresh anti-replay nonce from the system CSPRNG.
func Entropy() (uint64, error) {
	n, err := rand.Int(rand.Reader, maxEntropy)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GetRandomSessionNode picks a session node uniformly at random. It reports
// false for a session without nodes.
func GetRandomSessionNode(s domain.Session) (domain.Node, bool) {
	if len(s.Nodes) == 0 {
		return domain.Node{}, false
	}
	return s.Nodes[rnd.IntN(len(s.Nodes))], true
}

// IsNodeInSession reports whether a node with n's public key is in s.
func IsNodeInSession(s domain.Session, n domain.Node) bool {
	for _, m := range s.Nodes {
		if m.PublicKey == n.PublicKey {
			return true
		}
	}
	return false
}

type requestHashInput struct {
	Payload domain.RelayPayload `json:"payload"`
	Meta    domain.RelayMeta    `json:"meta"`
}

// HashRequest returns the hex SHA3-256 of {payload, meta}.
func HashRequest(payload domain.RelayPayload, meta domain.RelayMeta) (string, error) {
	return crypto.SHA3Hex(requestHashInput{Payload: payload, Meta: meta})
}

// HashAAT returns the hex SHA3-256 of the token with its signature blanked.
func HashAAT(aat domain.AAT) (string, error) {
	w := aat.Wire()
	w.Signature = ""
	return crypto.SHA3Hex(w)
}

// ProofInput holds the values a relay proof commits to.
type ProofInput struct {
	Entropy            uint64
	SessionBlockHeight int64
	ServicerPubKey     string
	Blockchain         string
	AAT                domain.AAT
	RequestHash        string
}

type proofPreimage struct {
	Entropy            uint64 `json:"entropy"`
	SessionBlockHeight int64  `json:"session_block_height"`
	ServicerPubKey     string `json:"servicer_pub_key"`
	Blockchain         string `json:"blockchain"`
	Signature          string `json:"signature"`
	Token              string `json:"token"`
	RequestHash        string `json:"request_hash"`
}

// ProofBytes returns the hex digest a client signs for a relay proof.
func ProofBytes(in ProofInput) (string, error) {
	token, err := HashAAT(in.AAT)
	if err != nil {
		return "", err
	}
	return crypto.SHA3Hex(proofPreimage{
		Entropy:            in.Entropy,
		SessionBlockHeight: in.SessionBlockHeight,
		ServicerPubKey:     in.ServicerPubKey,
		Blockchain:         in.Blockchain,
		Signature:          "",
		Token:              token,
		RequestHash:        in.RequestHash,
	})
}
