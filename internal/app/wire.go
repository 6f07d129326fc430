package app

import (
	"path/filepath"

	logger "github.com/kthomas/go-logger"
	"golang.org/x/time/rate"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/services/query"
	"pocketrelay/internal/services/relayer"
	"pocketrelay/internal/services/session"
	"pocketrelay/internal/store"
	"pocketrelay/internal/transport"
)

const keysDir = "keys"

// Wire bundles the transport, key store and protocol clients for the CLI.
type Wire struct {
	Config    Config
	Log       *logger.Logger
	Transport *transport.HTTP
	Keys      domain.PPKStore
	Query     *query.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := NewLogger(cfg)

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	t := transport.New(transport.Config{
		RPCURL:      cfg.RPCURL,
		Dispatchers: cfg.Dispatchers,
		HTTP:        cfg.HTTP,
		Limiter:     limiter,
		Logger:      log,
	})

	keys, err := openKeys(cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("wired transport (rpc %q, %d dispatcher(s)) and %s key store", cfg.RPCURL, len(cfg.Dispatchers), cfg.KeyBackend)

	return &Wire{
		Config:    cfg,
		Log:       log,
		Transport: t,
		Keys:      keys,
		Query:     query.New(t, cfg.Options()),
	}, nil
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *logger.Logger {
	lvl := cfg.LogLevel
	if lvl == "" {
		lvl = "INFO"
	}
	var endpoint *string
	if cfg.SyslogEndpoint != "" {
		endpt := cfg.SyslogEndpoint
		endpoint = &endpt
	}
	return logger.NewLogger("pocket", lvl, endpoint)
}

func openKeys(cfg Config) (domain.PPKStore, error) {
	if cfg.KeyBackend != BackendKeyring {
		return store.NewFileStore(filepath.Join(cfg.Home, keysDir)), nil
	}
	if cfg.Keyring != nil {
		return store.NewKeyringStore(cfg.Keyring), nil
	}
	return store.OpenKeyringStore()
}

// Options returns the transport options configured for every call.
func (c Config) Options() domain.SendOptions {
	return domain.SendOptions{Timeout: c.Timeout, RetryAttempts: c.RetryAttempts}
}

// Sessions returns a session client whose default application key is s's.
func (w *Wire) Sessions(s domain.Signer) *session.Client {
	return session.New(w.Transport, s)
}

// Relayer returns a relayer signing with s.
func (w *Wire) Relayer(s domain.Signer) *relayer.Relayer {
	return relayer.New(s, w.Transport, relayer.WithLogger(w.Log))
}

