package query_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/pocketerr"
	"pocketrelay/internal/pockettest"
	"pocketrelay/internal/services/query"
	"pocketrelay/internal/transport"
)

const addr = "b50a6e20d3733fb89631ae32385b3c85c533c560"

func newClient(t *testing.T) (*query.Client, *pockettest.Node) {
	t.Helper()
	n := pockettest.NewNode(t)
	return query.New(transport.New(transport.Config{RPCURL: n.URL}), domain.SendOptions{}), n
}

func TestGetBalance_AcceptsNumberOrString(t *testing.T) {
	for _, body := range []string{`{"balance":123456789012345678901}`, `{"balance":"123456789012345678901"}`} {
		c, n := newClient(t)
		n.Reply(domain.QueryBalance, http.StatusOK, body)

		got, err := c.GetBalance(context.Background(), addr)
		require.NoError(t, err, body)
		assert.Equal(t, "123456789012345678901", got.String())
		assert.JSONEq(t, `{"address":"`+addr+`"}`, string(n.Requests(domain.QueryBalance)[0]))
	}
}

func TestGetHeight(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryHeight, http.StatusOK, `{"height":51234}`)

	h, err := c.GetHeight(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 51234, h)
	assert.JSONEq(t, `{}`, string(n.Requests(domain.QueryHeight)[0]))
}

func TestGetHeight_ZeroIsAnError(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryHeight, http.StatusOK, `{"height":0}`)

	_, err := c.GetHeight(context.Background())
	require.ErrorIs(t, err, query.ErrRPC)
}

func TestMissingFieldsAreRPCErrors(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryBlock, http.StatusOK, `{"error":"not found"}`)
	n.Reply(domain.QueryTX, http.StatusOK, `{}`)
	n.Reply(domain.QueryNode, http.StatusOK, `{"address":"x"}`)
	n.Reply(domain.QueryAccount, http.StatusInternalServerError, `{"error":"boom"}`)

	ctx := context.Background()
	_, err := c.GetBlock(ctx, 10)
	assert.ErrorIs(t, err, query.ErrRPC)
	_, err = c.GetTransaction(ctx, "ABCD")
	assert.ErrorIs(t, err, query.ErrRPC)
	_, err = c.GetNode(ctx, addr)
	assert.ErrorIs(t, err, query.ErrRPC)
	_, err = c.GetAccount(ctx, addr)
	assert.ErrorIs(t, err, query.ErrRPC)
}

func TestGetBlockAndTransaction_ReturnRawBodies(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryBlock, http.StatusOK, `{"block":{"header":{"height":"10"}},"block_id":{}}`)
	n.Reply(domain.QueryTX, http.StatusOK, `{"hash":"ABCD","height":10}`)

	block, err := c.GetBlock(context.Background(), 10)
	require.NoError(t, err)
	assert.JSONEq(t, `{"block":{"header":{"height":"10"}},"block_id":{}}`, string(block))
	assert.JSONEq(t, `{"height":10}`, string(n.Requests(domain.QueryBlock)[0]))

	tx, err := c.GetTransaction(context.Background(), "ABCD")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hash":"ABCD","height":10}`, string(tx))
	assert.JSONEq(t, `{"hash":"ABCD"}`, string(n.Requests(domain.QueryTX)[0]))
}

func TestGetNode(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryNode, http.StatusOK, `{
		"address":"ignored","chains":["0001","0021"],"jailed":false,
		"public_key":"abcd","service_url":"https://node.example:443",
		"status":2,"tokens":"15000000000","unstaking_time":"0001-01-01T00:00:00Z"}`)

	node, err := c.GetNode(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, addr, node.Address)
	assert.Equal(t, []string{"0001", "0021"}, node.Chains)
	assert.Equal(t, "abcd", node.PublicKey)
	assert.Equal(t, "https://node.example:443", node.ServiceURL)
	assert.Equal(t, domain.Staked, node.Status)
	assert.Equal(t, "15000000000", node.StakedTokens.String())
}

func TestGetApp(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryApp, http.StatusOK, `{
		"chains":["0021"],"jailed":true,"max_relays":"1000000",
		"public_key":"abcd","staked_tokens":"25000000000","status":1}`)

	app, err := c.GetApp(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, addr, app.Address)
	assert.True(t, app.Jailed)
	assert.Equal(t, "1000000", app.MaxRelays.String())
	assert.Equal(t, "25000000000", app.StakedTokens.String())
	assert.Equal(t, domain.Unstaking, app.Status)
}

func TestGetAccountWithTransactions(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryAccount, http.StatusOK, `{"address":"`+addr+`","coins":[{"amount":"42","denom":"upokt"}],"public_key":"abcd"}`)
	n.Reply(domain.QueryAccountTxs, http.StatusOK, `{"total_count":2,"txs":[{"hash":"A"},{"hash":"B"}]}`)

	acc, err := c.GetAccountWithTransactions(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, "42", acc.Balance.String())
	assert.Equal(t, "abcd", acc.PublicKey)
	assert.Equal(t, 2, acc.TotalCount)
	require.Len(t, acc.Transactions, 2)
	assert.JSONEq(t, `{"hash":"B"}`, string(acc.Transactions[1]))

	count, err := c.GetTransactionCount(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetAccount_NoCoinsIsZero(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.QueryAccount, http.StatusOK, `{"address":"`+addr+`","coins":[],"public_key":null}`)

	acc, err := c.GetAccount(context.Background(), addr)
	require.NoError(t, err)
	assert.Zero(t, acc.Balance.Sign())
}

func TestGetType(t *testing.T) {
	tests := []struct {
		name string
		app  string
		node string
		want query.AccountType
	}{
		{"app", `{"max_relays":"10","chains":[]}`, `{"error":"not found"}`, query.TypeApp},
		{"node", `{"error":"not found"}`, `{"service_url":"https://n","chains":[]}`, query.TypeNode},
		{"account", `{"error":"not found"}`, `{"error":"not found"}`, query.TypeAccount},
		{"non object answers", `null`, `"nope"`, query.TypeAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, n := newClient(t)
			n.Reply(domain.QueryApp, http.StatusOK, tt.app)
			n.Reply(domain.QueryNode, http.StatusOK, tt.node)

			got, err := c.GetType(context.Background(), addr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSendTransaction(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.ClientRawTx, http.StatusOK, `{"height":"0","logs":null,"txhash":"C0FFEE"}`)

	res, err := c.SendTransaction(context.Background(), addr, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "C0FFEE", res.TxHash)
	assert.JSONEq(t, `{"address":"`+addr+`","txHex":"deadbeef"}`, string(n.Requests(domain.ClientRawTx)[0]))
}

func TestSendTransaction_Rejected(t *testing.T) {
	c, n := newClient(t)
	n.Reply(domain.ClientRawTx, http.StatusOK, `{"code":4,"raw_log":"signature verification failed","txhash":"C0FFEE"}`)

	_, err := c.SendTransaction(context.Background(), addr, "deadbeef")
	require.ErrorIs(t, err, pocketerr.ErrSignatureVerificationFailed)
}
