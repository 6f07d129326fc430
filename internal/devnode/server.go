package devnode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"pocketrelay/internal/crypto"
	"pocketrelay/internal/domain"
	"pocketrelay/internal/pocketerr"
	"pocketrelay/internal/services/relayer"
	"pocketrelay/internal/signer"
)

// Logger is the subset of a leveled logger the node writes to.
type Logger interface {
	Debugf(msg string, v ...interface{})
	Warningf(msg string, v ...interface{})
}

// Config describes the node.
type Config struct {
	ServiceURL string   // URL clients relay to, usually the listen address
	Chains     []string // relay chains served
	Height     int64    // session and chain height reported
	MaxRelays  int      // relays per session; 0 is unlimited
	Key        *signer.KeyManager
	Logger     Logger
}

// sessionKey identifies a session by application, chain and height.
type sessionKey struct {
	app    string
	chain  string
	height int64
}

// Server answers dispatch, relay and height calls.
type Server struct {
	cfg Config
	key *signer.KeyManager
	log Logger

	mu       sync.Mutex
	entropy  map[uint64]struct{}
	served   map[sessionKey]int
	sessions int
}

// New returns a Server. A key is generated when cfg.Key is nil.
func New(cfg Config) (*Server, error) {
	key := cfg.Key
	if key == nil {
		var err error
		if key, err = signer.CreateRandom(); err != nil {
			return nil, err
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return &Server{
		cfg:     cfg,
		key:     key,
		log:     cfg.Logger,
		entropy: make(map[uint64]struct{}),
		served:  make(map[sessionKey]int),
	}, nil
}

// PublicKey is the node's servicer key.
func (s *Server) PublicKey() string { return s.key.PublicKey() }

// Router returns the node's HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(domain.ClientDispatch.String(), s.dispatch).Methods(http.MethodPost)
	r.HandleFunc(domain.ClientRelay.String(), s.relay).Methods(http.MethodPost)
	r.HandleFunc(domain.QueryHeight.String(), s.height).Methods(http.MethodPost)
	return r
}

func (s *Server) node() domain.WireNode {
	return domain.WireNode{
		Address:       s.key.Address(),
		Chains:        s.cfg.Chains,
		PublicKey:     s.key.PublicKey(),
		ServiceURL:    s.cfg.ServiceURL,
		Status:        domain.Staked,
		Tokens:        json.RawMessage(`"15000000000"`),
		UnstakingTime: "0001-01-01T00:00:00Z",
	}
}

func (s *Server) serves(chain string) bool {
	for _, c := range s.cfg.Chains {
		if c == chain {
			return true
		}
	}
	return false
}

type dispatchRequest struct {
	AppPublicKey  string `json:"app_public_key"`
	Chain         string `json:"chain"`
	SessionHeight int64  `json:"session_height"`
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.serves(req.Chain) {
		s.reject(w, pocketerr.CodeUnsupportedBlockchain, fmt.Sprintf("chain %s is not served", req.Chain))
		return
	}
	height := req.SessionHeight
	if height == 0 {
		height = s.cfg.Height
	}
	s.mu.Lock()
	s.sessions++
	n := s.sessions
	s.mu.Unlock()
	s.log.Debugf("dispatched session %d for app %s on %s at %d", n, req.AppPublicKey, req.Chain, height)

	writeJSON(w, http.StatusOK, map[string]any{
		"block_height": s.cfg.Height,
		"session": map[string]any{
			"header": map[string]any{
				"app_public_key": req.AppPublicKey,
				"chain":          req.Chain,
				"session_height": height,
			},
			"key":   crypto.B64(crypto.SHA3([]byte(fmt.Sprintf("%s/%s/%d", req.AppPublicKey, req.Chain, height)))),
			"nodes": []domain.WireNode{s.node()},
		},
	})
}

func (s *Server) relay(w http.ResponseWriter, r *http.Request) {
	var req domain.RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if code, msg := s.check(req); code != 0 {
		s.log.Warningf("rejected relay on %s: %d %s", req.Proof.Blockchain, code, msg)
		s.reject(w, code, msg)
		return
	}

	response := req.Payload.Data
	sig, err := s.key.Sign(crypto.Hex(crypto.SHA3([]byte(response))))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": response, "signature": sig})
}

// check validates a relay and returns the rejection code, or zero.
func (s *Server) check(req domain.RelayRequest) (pocketerr.Code, string) {
	p := req.Proof
	switch {
	case req.Payload.Data == "":
		return pocketerr.CodeEmptyPayloadData, "the payload data of the relay request is empty"
	case !s.serves(p.Blockchain):
		return pocketerr.CodeUnsupportedBlockchain, fmt.Sprintf("chain %s is not served", p.Blockchain)
	case p.SessionBlockHeight != req.Meta.BlockHeight || p.SessionBlockHeight > s.cfg.Height:
		return pocketerr.CodeInvalidBlockHeight, fmt.Sprintf("session height %d is not valid", p.SessionBlockHeight)
	}

	hash, err := relayer.HashRequest(req.Payload, req.Meta)
	if err != nil || hash != p.RequestHash {
		return pocketerr.CodeRequestHash, "the request hash does not match the payload"
	}
	if !s.verify(p) {
		return pocketerr.CodeSignatureVerificationFailed, "relay proof signature verification failed"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.entropy[p.Entropy]; dup {
		return pocketerr.CodeDuplicateProof, fmt.Sprintf("entropy %d was already used", p.Entropy)
	}
	sk := sessionKey{app: p.AAT.AppPubKey, chain: p.Blockchain, height: p.SessionBlockHeight}
	if s.cfg.MaxRelays > 0 && s.served[sk] >= s.cfg.MaxRelays {
		return pocketerr.CodeOverService, "the application has used all relays of this session"
	}
	s.entropy[p.Entropy] = struct{}{}
	s.served[sk]++
	return 0, ""
}

func (s *Server) verify(p domain.RelayProof) bool {
	digest, err := relayer.ProofBytes(relayer.ProofInput{
		Entropy:            p.Entropy,
		SessionBlockHeight: p.SessionBlockHeight,
		ServicerPubKey:     p.ServicerPubKey,
		Blockchain:         p.Blockchain,
		AAT: domain.AAT{
			Version:              p.AAT.Version,
			ClientPublicKey:      p.AAT.ClientPubKey,
			ApplicationPublicKey: p.AAT.AppPubKey,
		},
		RequestHash: p.RequestHash,
	})
	if err != nil {
		return false
	}
	msg, err := crypto.DecodeHex(digest)
	if err != nil {
		return false
	}
	pub, err := crypto.DecodeHex(p.AAT.ClientPubKey)
	if err != nil {
		return false
	}
	sig, err := crypto.DecodeHex(p.Signature)
	if err != nil {
		return false
	}
	return crypto.VerifyEd25519(pub, msg, sig)
}

func (s *Server) height(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{"height": s.cfg.Height})
}

func (s *Server) reject(w http.ResponseWriter, code pocketerr.Code, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"code": code, "codespace": "pocketcore", "message": msg},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Warningf(string, ...interface{}) {}
