package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketrelay/internal/app"
	"pocketrelay/internal/domain"
	"pocketrelay/internal/pockettest"
	"pocketrelay/internal/services/relayer"
	"pocketrelay/internal/services/session"
	"pocketrelay/internal/signer"
	"pocketrelay/internal/store"
)

const privateKey = "1f8cbde30ef5a9db0a5a9d5eb40536fc9defc318b8581d543808b7504e0902bcb243b27bc9fbe5580457a46370ae5f03a6f6753633e51efdaf2cf534fdc26cc3"

func newApp(t *testing.T) *app.App {
	t.Helper()
	return app.New(store.NewFileStore(t.TempDir()))
}

func TestApp_NewAccountUnlocks(t *testing.T) {
	a := newApp(t)
	km, err := a.NewAccount("main", "pw", "hint")
	require.NoError(t, err)

	got, err := a.Unlock("main", "pw")
	require.NoError(t, err)
	assert.Equal(t, km.Address(), got.Address())

	_, err = a.Unlock("main", "wrong")
	require.ErrorIs(t, err, signer.ErrDecrypt)

	_, err = a.Unlock("missing", "pw")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestApp_RefusesToOverwrite(t *testing.T) {
	a := newApp(t)
	_, err := a.ImportAccount("main", privateKey, "pw", "")
	require.NoError(t, err)

	_, err = a.NewAccount("main", "pw", "")
	require.ErrorIs(t, err, app.ErrAccountExists)

	names, err := a.Accounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, names)
}

func TestApp_ExportThenImportPPK(t *testing.T) {
	src := newApp(t)
	km, err := src.ImportAccount("main", privateKey, "pw", "h")
	require.NoError(t, err)

	ppk, err := src.ExportPPK("main")
	require.NoError(t, err)
	raw, err := json.Marshal(ppk)
	require.NoError(t, err)

	dst := newApp(t)
	_, err = dst.ImportPPK("copy", raw, "wrong")
	require.ErrorIs(t, err, signer.ErrDecrypt)
	_, err = dst.ImportPPK("copy", []byte(`{"kdf":"scrypt"}`), "pw")
	require.ErrorIs(t, err, signer.ErrInvalidPPK)

	got, err := dst.ImportPPK("copy", raw, "pw")
	require.NoError(t, err)
	assert.Equal(t, km.Address(), got.Address())

	names, err := dst.Accounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"copy"}, names)
}

func TestNewWire_KeyringBackend(t *testing.T) {
	cfg := app.DefaultConfig(t.TempDir())
	cfg.KeyBackend = app.BackendKeyring
	cfg.Keyring = keyring.NewArrayKeyring(nil)

	w, err := app.NewWire(cfg)
	require.NoError(t, err)
	_, ok := w.Keys.(*store.KeyringStore)
	assert.True(t, ok)
}

func TestNewWire_RejectsInvalidConfig(t *testing.T) {
	cfg := app.DefaultConfig(t.TempDir())
	cfg.KeyBackend = "vault"
	_, err := app.NewWire(cfg)
	require.Error(t, err)
}

func TestWire_DispatchThenRelay(t *testing.T) {
	node := pockettest.NewNode(t)
	node.Reply(domain.ClientRelay, http.StatusOK, `{"response":"0x2a","signature":"s"}`)
	dispatcher := pockettest.NewNode(t)
	rpc := pockettest.NewNode(t)
	rpc.Reply(domain.QueryHeight, http.StatusOK, `{"height":77}`)

	km, err := signer.FromPrivateKey(privateKey)
	require.NoError(t, err)
	dispatcher.ReplyJSON(domain.ClientDispatch, pockettest.Dispatch(km.PublicKey(), "0021", 77, node.URL))

	cfg := app.DefaultConfig(t.TempDir())
	cfg.RPCURL = rpc.URL
	cfg.Dispatchers = []string{dispatcher.URL}
	cfg.RateLimit = 100
	w, err := app.NewWire(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	height, err := w.Query.GetHeight(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 77, height)

	s, err := w.Sessions(km).GetSession(ctx, session.GetSessionRequest{Chain: "0021", Options: cfg.Options()})
	require.NoError(t, err)

	res, err := w.Relayer(km).Relay(ctx, relayer.Request{
		Blockchain: "0021",
		Data:       `{"jsonrpc":"2.0","method":"eth_chainId","params":[],"id":1}`,
		AAT: domain.AAT{
			Version:              "0.0.1",
			ClientPublicKey:      km.PublicKey(),
			ApplicationPublicKey: km.PublicKey(),
			ApplicationSignature: "sig",
		},
		Session: s,
		Options: cfg.Options(),
	})
	require.NoError(t, err)
	assert.Equal(t, `"0x2a"`, string(res.Response))
	assert.Equal(t, 1, node.Hits(domain.ClientRelay))
}
